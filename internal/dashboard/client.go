// Package dashboard provides a client for the Healcard dashboard's public
// endpoints and the user-facing action flows built on top of it.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

// ActionResponse is the server's verdict on a destructive action.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Reason returns the server-provided failure text, preferring Message.
func (r *ActionResponse) Reason() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// Appointment is the details preview for a single appointment.
type Appointment struct {
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	Patient string `json:"patient,omitempty"`
	Doctor  string `json:"doctor,omitempty"`
	Status  string `json:"status,omitempty"`
}

// DetailsResponse is the response from the appointment details endpoint.
type DetailsResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// Client is an HTTP client for the Healcard dashboard endpoints.
type Client struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSessionCookie attaches a pre-obtained dashboard session cookie to
// every request. The client never performs a login itself.
func WithSessionCookie(cookie string) ClientOption {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// NewClient creates a new dashboard client.
// baseURL should be the dashboard root (e.g., "http://localhost:5000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CancelAppointment asks the server to cancel a single appointment. The
// identifier is an opaque pass-through; the body is empty per the
// dashboard's contract.
func (c *Client) CancelAppointment(ctx context.Context, appointmentID string) (*ActionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/cancel_appointment/"+url.PathEscape(appointmentID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("dashboard: create cancel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachCookie(req)

	c.logger.Debug("cancelling appointment", "appointment_id", appointmentID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	var result ActionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("dashboard: decode cancel response: %w", err)
	}

	if !result.Success {
		c.logger.Warn("cancel rejected by server", "appointment_id", appointmentID, "message", result.Reason())
	}

	return &result, nil
}

// DeleteAppointmentsByDate asks the server to delete every appointment on
// the given date. The date travels as a URL-encoded form field.
func (c *Client) DeleteAppointmentsByDate(ctx context.Context, date string) (*ActionResponse, error) {
	form := url.Values{"date": {date}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/delete_appointments_by_date", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("dashboard: create delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.attachCookie(req)

	c.logger.Debug("deleting appointments", "date", date)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: delete request failed: %w", err)
	}
	defer resp.Body.Close()

	var result ActionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("dashboard: decode delete response: %w", err)
	}

	if !result.Success {
		c.logger.Warn("delete rejected by server", "date", date, "message", result.Reason())
	}

	return &result, nil
}

// AppointmentDetails fetches the details preview for an appointment.
func (c *Client) AppointmentDetails(ctx context.Context, appointmentID string) (*DetailsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/appointment_details/"+url.PathEscape(appointmentID), nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard: create details request: %w", err)
	}
	c.attachCookie(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: details request failed: %w", err)
	}
	defer resp.Body.Close()

	var result DetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("dashboard: decode details response: %w", err)
	}

	return &result, nil
}

// FetchPage performs a full GET of a dashboard page and discards the body.
func (c *Client) FetchPage(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("dashboard: create page request: %w", err)
	}
	c.attachCookie(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard: page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dashboard: page %s returned status %d", path, resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) attachCookie(req *http.Request) {
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
}
