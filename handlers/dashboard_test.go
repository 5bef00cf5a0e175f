package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin(t, "dash@clinic.test")
	patientID := s.createPatient(t, token, "555-0140")
	s.createPatient(t, token, "555-0141")

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, time.Local)
	s.createAppointment(t, token, patientID, today)
	s.createAppointment(t, token, patientID, today.AddDate(0, 0, 1)) // tomorrow, excluded

	w := s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		PatientCount       int64             `json:"patientCount"`
		TodaysAppointments []json.RawMessage `json:"todaysAppointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.PatientCount)
	assert.Len(t, resp.TodaysAppointments, 1)
}

func TestDashboardScopedToDoctor(t *testing.T) {
	s := newTestServer(t)
	busy := s.signupAndLogin(t, "busy@clinic.test")
	idle := s.signupAndLogin(t, "idle@clinic.test")
	s.createPatient(t, busy, "555-0142")

	w := s.do(t, http.MethodGet, "/api/dashboard", idle, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		PatientCount int64 `json:"patientCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.PatientCount)
}
