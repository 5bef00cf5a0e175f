package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) createAppointment(t *testing.T, token, patientID string, start time.Time) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/appointments", token, gin.H{
		"patient": patientID, "startTime": start, "endTime": start.Add(30 * time.Minute), "reason": "consult",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Appointment struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Scheduled", resp.Appointment.Status)
	return resp.Appointment.ID
}

func localDay(day string, hour int) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestAppointmentDateWindow(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin(t, "appt1@clinic.test")
	patientID := s.createPatient(t, token, "555-0120")

	for _, day := range []string{"2026-09-01", "2026-09-02", "2026-09-03"} {
		s.createAppointment(t, token, patientID, localDay(day, 11))
	}

	w := s.do(t, http.MethodGet, "/api/appointments?startDate=2026-09-01&endDate=2026-09-02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Appointments []struct {
			StartTime time.Time `json:"startTime"`
		} `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 2)
	assert.True(t, resp.Appointments[0].StartTime.Before(resp.Appointments[1].StartTime))

	// startDate alone = that single day
	w = s.do(t, http.MethodGet, "/api/appointments?startDate=2026-09-03", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Appointments, 1)

	// endDate alone is ignored
	w = s.do(t, http.MethodGet, "/api/appointments?endDate=2026-09-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Appointments, 3)
}

func TestAppointmentBadDate(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin(t, "appt2@clinic.test")

	w := s.do(t, http.MethodGet, "/api/appointments?startDate=01-09-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentInvalidStatusRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin(t, "appt3@clinic.test")
	patientID := s.createPatient(t, token, "555-0121")

	w := s.do(t, http.MethodPost, "/api/appointments", token, gin.H{
		"patient": patientID, "startTime": time.Now(), "endTime": time.Now().Add(time.Hour),
		"reason": "consult", "status": "Pending",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentCrossTenant404(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupAndLogin(t, "appt4@clinic.test")
	other := s.signupAndLogin(t, "appt5@clinic.test")
	patientID := s.createPatient(t, owner, "555-0122")
	id := s.createAppointment(t, owner, patientID, time.Now().Add(time.Hour))

	w := s.do(t, http.MethodGet, "/api/appointments/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	status := "Cancelled"
	w = s.do(t, http.MethodPut, "/api/appointments/"+id, other, gin.H{"status": status})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// other doctor's listing does not leak it
	w = s.do(t, http.MethodGet, "/api/appointments", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Appointments []json.RawMessage `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Appointments)
}

func TestAppointmentRescheduleFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin(t, "appt6@clinic.test")
	patientID := s.createPatient(t, token, "555-0123")
	id := s.createAppointment(t, token, patientID, localDay("2026-09-10", 9))

	newStart := localDay("2026-09-11", 9)
	w := s.do(t, http.MethodPut, "/api/appointments/"+id, token, gin.H{
		"startTime": newStart, "endTime": newStart.Add(30 * time.Minute), "status": "Rescheduled",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointment struct {
			StartTime time.Time `json:"startTime"`
			Status    string    `json:"status"`
			Patient   string    `json:"patient"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Rescheduled", resp.Appointment.Status)
	assert.True(t, newStart.Equal(resp.Appointment.StartTime))
	assert.Equal(t, patientID, resp.Appointment.Patient)
}
