// Package dashboardtest provides an in-process fake of the Healcard
// dashboard's public HTTP contract for tests. Routes, shapes and message
// strings follow the live dashboard.
package dashboardtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Appointment is a seeded record on the fake server.
type Appointment struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Patient string `json:"patient"`
}

// Server wraps an httptest.Server implementing the dashboard contract.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	appointments   map[string]Appointment
	hits           map[string]int
	lastDeleteBody string
}

// New starts a fake dashboard server. Callers own Close.
func New() *Server {
	s := &Server{
		appointments: make(map[string]Appointment),
		hits:         make(map[string]int),
	}

	r := chi.NewRouter()
	r.Post("/cancel_appointment/{appointmentID}", s.cancelAppointment)
	r.Post("/delete_appointments_by_date", s.deleteAppointmentsByDate)
	r.Get("/appointment_details/{appointmentID}", s.appointmentDetails)
	r.Get("/doctor/patients", s.page)
	r.Get("/doctor/notifications", s.page)
	r.Get("/", s.page)

	s.Server = httptest.NewServer(r)
	return s
}

// Seed registers an appointment under the given identifier.
func (s *Server) Seed(id string, appt Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[id] = appt
}

// Hits reports how many requests matched "<METHOD> <path>".
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

// LastDeleteBody returns the raw body of the most recent bulk-delete
// request, for exact wire-format assertions.
func (s *Server) LastDeleteBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDeleteBody
}

// Has reports whether an appointment is still present.
func (s *Server) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.appointments[id]
	return ok
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[r.Method+" "+r.URL.Path]++
}

func (s *Server) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	id := chi.URLParam(r, "appointmentID")

	s.mu.Lock()
	_, ok := s.appointments[id]
	if ok {
		delete(s.appointments, id)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Appointment not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Appointment cancelled successfully",
	})
}

func (s *Server) deleteAppointmentsByDate(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.lastDeleteBody = string(body)
	s.mu.Unlock()

	values, err := url.ParseQuery(string(body))
	date := ""
	if err == nil {
		date = values.Get("date")
	}
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Date not provided",
		})
		return
	}

	s.mu.Lock()
	deleted := 0
	for id, appt := range s.appointments {
		if appt.Date == date {
			delete(s.appointments, id)
			deleted++
		}
	}
	s.mu.Unlock()

	if deleted == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "No appointments found for this date",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("All appointments for %s have been cancelled and patients refunded", date),
	})
}

func (s *Server) appointmentDetails(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	id := chi.URLParam(r, "appointmentID")

	s.mu.Lock()
	appt, ok := s.appointments[id]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Appointment not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"appointment": appt,
	})
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><h1>%s</h1></body></html>", r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
