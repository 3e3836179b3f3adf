package dashboard

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeerHirpara/healcard-dashboard/internal/dashboardtest"
	"github.com/HeerHirpara/healcard-dashboard/internal/observability/metrics"
	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

type fakePrompter struct {
	answer   bool
	confirms []string
	notices  []string
}

func (f *fakePrompter) Confirm(text string) bool {
	f.confirms = append(f.confirms, text)
	return f.answer
}

func (f *fakePrompter) Notify(text string) {
	f.notices = append(f.notices, text)
}

type fakeNavigator struct {
	navigations []string
	reloads     int
}

func (f *fakeNavigator) Navigate(_ context.Context, path string) error {
	f.navigations = append(f.navigations, path)
	return nil
}

func (f *fakeNavigator) Reload(_ context.Context) error {
	f.reloads++
	return nil
}

func newTestSession(t *testing.T, srv *dashboardtest.Server, answer bool) (*Session, *fakePrompter, *fakeNavigator) {
	t.Helper()
	prompter := &fakePrompter{answer: answer}
	nav := &fakeNavigator{}
	client := NewClient(srv.URL, WithLogger(logging.NewWithWriter("error", &bytes.Buffer{})))
	session := NewSession(client, prompter, nav, nil, logging.NewWithWriter("error", &bytes.Buffer{}))
	return session, prompter, nav
}

func TestCancelAppointmentDeclined(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("42", dashboardtest.Appointment{Date: "2024-01-01", Time: "10:30", Patient: "Jane Roe"})

	session, prompter, nav := newTestSession(t, srv, false)

	outcome, err := session.CancelAppointment(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, outcome)
	assert.Len(t, prompter.confirms, 1)
	assert.Empty(t, prompter.notices)
	assert.Zero(t, nav.reloads)
	assert.Zero(t, srv.Hits("POST /cancel_appointment/42"), "declined confirm must not reach the cancel endpoint")
	assert.Zero(t, srv.Hits("GET /appointment_details/42"), "declined confirm must not fetch the details preview either")
	assert.True(t, srv.Has("42"), "appointment must survive a declined confirm")
}

func TestCancelAppointmentSuccess(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("42", dashboardtest.Appointment{Date: "2024-01-01", Time: "10:30", Patient: "Jane Roe"})

	session, prompter, nav := newTestSession(t, srv, true)

	outcome, err := session.CancelAppointment(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReloaded, outcome)
	assert.Equal(t, 1, nav.reloads, "reload must fire exactly once")
	require.Len(t, prompter.notices, 1)
	assert.Contains(t, prompter.notices[0], "cancelled")
	assert.Equal(t, 1, srv.Hits("POST /cancel_appointment/42"))
	assert.False(t, srv.Has("42"))
}

func TestCancelAppointmentNoticeIncludesDetails(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("42", dashboardtest.Appointment{Date: "2024-01-01", Time: "10:30", Patient: "Jane Roe"})

	session, prompter, _ := newTestSession(t, srv, true)

	_, err := session.CancelAppointment(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, prompter.confirms, 1)
	assert.Equal(t, "Are you sure you want to cancel this appointment?", prompter.confirms[0],
		"the confirm stays plain; details only enrich the outcome")
	require.Len(t, prompter.notices, 1)
	assert.Contains(t, prompter.notices[0], "2024-01-01")
	assert.Contains(t, prompter.notices[0], "Jane Roe")
}

func TestCancelAppointmentPlainNoticeWithoutDetails(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()

	// Empty details: the success notice falls back to the plain message.
	srv.Seed("42", dashboardtest.Appointment{})

	session, prompter, _ := newTestSession(t, srv, true)

	_, err := session.CancelAppointment(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, prompter.notices, 1)
	assert.Equal(t, "Appointment cancelled successfully", prompter.notices[0])
}

func TestCancelAppointmentServerFailure(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()

	session, prompter, nav := newTestSession(t, srv, true)

	outcome, err := session.CancelAppointment(context.Background(), "missing")
	require.NoError(t, err, "a server-reported failure is user feedback, not an error")
	assert.Equal(t, OutcomeErrorShown, outcome)
	require.Len(t, prompter.notices, 1)
	assert.Contains(t, prompter.notices[0], "Appointment not found")
	assert.Zero(t, nav.reloads, "no reload after a failed action")
}

func TestCancelAppointmentTransportFailure(t *testing.T) {
	srv := dashboardtest.New()
	srv.Close() // every request now fails at the transport

	var logBuf bytes.Buffer
	prompter := &fakePrompter{answer: true}
	nav := &fakeNavigator{}
	client := NewClient(srv.URL, WithLogger(logging.NewWithWriter("error", &bytes.Buffer{})))
	session := NewSession(client, prompter, nav, nil, logging.NewWithWriter("error", &logBuf))

	outcome, err := session.CancelAppointment(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, OutcomeErrorShown, outcome)
	require.Len(t, prompter.notices, 1)
	assert.Equal(t, "An error occurred. Please try again.", prompter.notices[0])
	assert.Zero(t, nav.reloads)

	records := strings.Split(strings.TrimSpace(logBuf.String()), "\n")
	assert.Len(t, records, 1, "exactly one error-level log record per transport failure")
}

func TestDeleteAppointmentsByDateEmptyDate(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()

	for _, answer := range []bool{true, false} {
		session, prompter, nav := newTestSession(t, srv, answer)

		outcome, err := session.DeleteAppointmentsByDate(context.Background(), "  ")
		require.NoError(t, err)
		assert.Equal(t, OutcomeInvalid, outcome)
		assert.Empty(t, prompter.confirms, "validation fails before the confirm")
		require.Len(t, prompter.notices, 1)
		assert.Contains(t, prompter.notices[0], "select a date")
		assert.Zero(t, nav.reloads)
	}
	assert.Zero(t, srv.Hits("POST /delete_appointments_by_date"), "empty date must never reach the server")
}

func TestDeleteAppointmentsByDateDeclined(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("1", dashboardtest.Appointment{Date: "2024-01-01"})

	session, prompter, nav := newTestSession(t, srv, false)

	outcome, err := session.DeleteAppointmentsByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, outcome)
	require.Len(t, prompter.confirms, 1)
	assert.Contains(t, prompter.confirms[0], "2024-01-01", "the confirm names the selected date")
	assert.Zero(t, srv.Hits("POST /delete_appointments_by_date"))
	assert.Zero(t, nav.reloads)
	assert.True(t, srv.Has("1"))
}

func TestDeleteAppointmentsByDateSuccess(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("1", dashboardtest.Appointment{Date: "2024-01-01"})
	srv.Seed("2", dashboardtest.Appointment{Date: "2024-01-01"})
	srv.Seed("3", dashboardtest.Appointment{Date: "2024-02-02"})

	session, prompter, nav := newTestSession(t, srv, true)

	outcome, err := session.DeleteAppointmentsByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReloaded, outcome)
	assert.Equal(t, "date=2024-01-01", srv.LastDeleteBody(), "wire body is the bare form field")
	assert.Equal(t, 1, nav.reloads)
	require.Len(t, prompter.notices, 1)
	assert.Equal(t, "All appointments for 2024-01-01 have been cancelled and patients refunded", prompter.notices[0])
	assert.False(t, srv.Has("1"))
	assert.False(t, srv.Has("2"))
	assert.True(t, srv.Has("3"), "other dates are untouched")
}

func TestDeleteAppointmentsByDateNoMatch(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()

	session, prompter, nav := newTestSession(t, srv, true)

	outcome, err := session.DeleteAppointmentsByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, OutcomeErrorShown, outcome)
	require.Len(t, prompter.notices, 1)
	assert.Contains(t, prompter.notices[0], "No appointments found for this date")
	assert.Zero(t, nav.reloads)
}

func TestDeleteAppointmentsByDateTransportFailure(t *testing.T) {
	srv := dashboardtest.New()
	srv.Close()

	var logBuf bytes.Buffer
	prompter := &fakePrompter{answer: true}
	nav := &fakeNavigator{}
	client := NewClient(srv.URL, WithLogger(logging.NewWithWriter("error", &bytes.Buffer{})))
	session := NewSession(client, prompter, nav, nil, logging.NewWithWriter("error", &logBuf))

	outcome, err := session.DeleteAppointmentsByDate(context.Background(), "2024-01-01")
	require.Error(t, err)
	assert.Equal(t, OutcomeErrorShown, outcome)
	require.Len(t, prompter.notices, 1)
	assert.Equal(t, "An error occurred. Please try again.", prompter.notices[0])

	records := strings.Split(strings.TrimSpace(logBuf.String()), "\n")
	assert.Len(t, records, 1)
}

func TestSessionNavigationShortcuts(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()

	session, _, nav := newTestSession(t, srv, true)

	require.NoError(t, session.OpenPatients(context.Background()))
	require.NoError(t, session.OpenNotifications(context.Background()))
	assert.Equal(t, []string{"/doctor/patients", "/doctor/notifications"}, nav.navigations)
}

func TestSessionRecordsMetrics(t *testing.T) {
	srv := dashboardtest.New()
	defer srv.Close()
	srv.Seed("42", dashboardtest.Appointment{Date: "2024-01-01"})

	reg := prometheus.NewRegistry()
	m := metrics.NewActionMetrics(reg)
	prompter := &fakePrompter{answer: true}
	nav := &fakeNavigator{}
	client := NewClient(srv.URL, WithLogger(logging.NewWithWriter("error", &bytes.Buffer{})), WithHTTPClient(http.DefaultClient))
	session := NewSession(client, prompter, nav, m, logging.NewWithWriter("error", &bytes.Buffer{}))

	_, err := session.CancelAppointment(context.Background(), "42")
	require.NoError(t, err)
	_, err = session.DeleteAppointmentsByDate(context.Background(), "")
	require.NoError(t, err)

	snap := metrics.SnapshotActions(reg)
	assert.EqualValues(t, 1, snap["cancel_appointment/reloaded"])
	assert.EqualValues(t, 1, snap["delete_by_date/invalid"])
}
