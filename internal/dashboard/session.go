package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/HeerHirpara/healcard-dashboard/internal/observability/metrics"
	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

var sessionTracer = otel.Tracer("healcard.internal.dashboard")

// Prompter is the blocking user-prompt capability. Confirm does not
// return until the user answers.
type Prompter interface {
	Confirm(text string) bool
	Notify(text string)
}

// Navigator performs full-page navigations. Reload re-fetches whatever
// page the user is currently on; it is the only state-refresh mechanism.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
	Reload(ctx context.Context) error
}

// Outcome is the terminal state of an action flow.
type Outcome string

const (
	OutcomeAborted    Outcome = "aborted"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeReloaded   Outcome = "reloaded"
	OutcomeErrorShown Outcome = "error_shown"
)

// Fixed dashboard pages the shortcuts navigate to.
const (
	PatientsPath      = "/doctor/patients"
	NotificationsPath = "/doctor/notifications"
)

const genericErrorMessage = "An error occurred. Please try again."

// Session runs the dashboard action flows over injected capabilities:
// confirm, request, user feedback, refresh.
type Session struct {
	client  *Client
	prompt  Prompter
	nav     Navigator
	metrics *metrics.ActionMetrics
	logger  *logging.Logger
}

// NewSession creates a session. metrics may be nil; logger nil falls back
// to the default logger.
func NewSession(client *Client, prompt Prompter, nav Navigator, m *metrics.ActionMetrics, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		client:  client,
		prompt:  prompt,
		nav:     nav,
		metrics: m,
		logger:  logger,
	}
}

// OpenPatients navigates to the patient-listing page.
func (s *Session) OpenPatients(ctx context.Context) error {
	return s.open(ctx, PatientsPath)
}

// OpenNotifications navigates to the notifications page.
func (s *Session) OpenNotifications(ctx context.Context) error {
	return s.open(ctx, NotificationsPath)
}

func (s *Session) open(ctx context.Context, path string) error {
	gestureID := uuid.NewString()
	s.logger.Info("dashboard: navigating", "gesture_id", gestureID, "path", path)
	if err := s.nav.Navigate(ctx, path); err != nil {
		return fmt.Errorf("dashboard: navigate to %s: %w", path, err)
	}
	return nil
}

// CancelAppointment runs the cancel flow for one appointment:
// confirm, POST, feedback, reload. A declined confirmation aborts with
// zero network activity.
func (s *Session) CancelAppointment(ctx context.Context, appointmentID string) (Outcome, error) {
	gestureID := uuid.NewString()
	ctx, span := sessionTracer.Start(ctx, "dashboard.cancel_appointment")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", appointmentID))

	if !s.prompt.Confirm("Are you sure you want to cancel this appointment?") {
		s.logger.Debug("dashboard: cancel declined", "gesture_id", gestureID, "appointment_id", appointmentID)
		s.metrics.ObserveAction("cancel_appointment", string(OutcomeAborted))
		return OutcomeAborted, nil
	}

	// The record is still present here; its details enrich the success
	// notification below.
	description := s.appointmentDescription(ctx, appointmentID)

	start := time.Now()
	resp, err := s.client.CancelAppointment(ctx, appointmentID)
	s.metrics.ObserveLatency("cancel_appointment", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		s.logger.Error("dashboard: cancel appointment failed", "gesture_id", gestureID, "appointment_id", appointmentID, "error", err)
		s.prompt.Notify(genericErrorMessage)
		s.metrics.ObserveAction("cancel_appointment", string(OutcomeErrorShown))
		return OutcomeErrorShown, fmt.Errorf("dashboard: cancel appointment %s: %w", appointmentID, err)
	}

	if !resp.Success {
		s.prompt.Notify("Failed to cancel appointment: " + resp.Reason())
		s.metrics.ObserveAction("cancel_appointment", string(OutcomeErrorShown))
		return OutcomeErrorShown, nil
	}

	message := resp.Message
	if message == "" {
		message = "Appointment cancelled successfully"
	}
	if description != "" {
		message = fmt.Sprintf("%s (%s)", message, description)
	}
	s.prompt.Notify(message)
	s.metrics.ObserveAction("cancel_appointment", string(OutcomeReloaded))
	s.reload(ctx, gestureID)
	return OutcomeReloaded, nil
}

// appointmentDescription fetches the details preview for a confirmed
// cancellation. Best-effort: any failure yields an empty description.
func (s *Session) appointmentDescription(ctx context.Context, appointmentID string) string {
	details, err := s.client.AppointmentDetails(ctx, appointmentID)
	if err != nil || !details.Success || details.Appointment == nil {
		return ""
	}

	appt := details.Appointment
	var parts []string
	if appt.Date != "" {
		parts = append(parts, appt.Date)
	}
	if appt.Time != "" {
		parts = append(parts, appt.Time)
	}
	if appt.Patient != "" {
		parts = append(parts, "with "+appt.Patient)
	}
	return strings.Join(parts, " ")
}

// DeleteAppointmentsByDate runs the bulk-delete flow: validate, confirm,
// POST, feedback, reload. An empty date aborts before confirmation and
// before any network activity.
func (s *Session) DeleteAppointmentsByDate(ctx context.Context, date string) (Outcome, error) {
	gestureID := uuid.NewString()
	ctx, span := sessionTracer.Start(ctx, "dashboard.delete_appointments_by_date")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.date", date))

	if strings.TrimSpace(date) == "" {
		s.prompt.Notify("Please select a date")
		s.metrics.ObserveAction("delete_by_date", string(OutcomeInvalid))
		return OutcomeInvalid, nil
	}

	if !s.prompt.Confirm(fmt.Sprintf("Are you sure you want to delete all appointments for %s?", date)) {
		s.logger.Debug("dashboard: delete declined", "gesture_id", gestureID, "date", date)
		s.metrics.ObserveAction("delete_by_date", string(OutcomeAborted))
		return OutcomeAborted, nil
	}

	start := time.Now()
	resp, err := s.client.DeleteAppointmentsByDate(ctx, date)
	s.metrics.ObserveLatency("delete_by_date", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		s.logger.Error("dashboard: delete appointments failed", "gesture_id", gestureID, "date", date, "error", err)
		s.prompt.Notify(genericErrorMessage)
		s.metrics.ObserveAction("delete_by_date", string(OutcomeErrorShown))
		return OutcomeErrorShown, fmt.Errorf("dashboard: delete appointments for %s: %w", date, err)
	}

	if !resp.Success {
		message := resp.Reason()
		if message == "" {
			message = genericErrorMessage
		}
		s.prompt.Notify(message)
		s.metrics.ObserveAction("delete_by_date", string(OutcomeErrorShown))
		return OutcomeErrorShown, nil
	}

	s.prompt.Notify(resp.Message)
	s.metrics.ObserveAction("delete_by_date", string(OutcomeReloaded))
	s.reload(ctx, gestureID)
	return OutcomeReloaded, nil
}

// reload refreshes server-rendered state after a successful action. The
// action itself already succeeded, so a reload failure is only logged.
func (s *Session) reload(ctx context.Context, gestureID string) {
	if err := s.nav.Reload(ctx); err != nil {
		s.logger.Warn("dashboard: reload failed", "gesture_id", gestureID, "error", err)
	}
}
