package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/attachments"
	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/doctors"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/visits"
	"github.com/clinicdesk/clinicdesk/pkg/middleware"
)

const testSecret = "handlers-test-secret"

// testServer wires the full route table against memory repositories.
type testServer struct {
	router *gin.Engine
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, AccessTokenTTL: time.Hour}}

	doctorsSvc := doctors.NewService(doctors.NewMemoryRepository())
	patientsSvc := patients.NewService(patients.NewMemoryRepository())
	visitsSvc := visits.NewService(visits.NewMemoryRepository(), patientsSvc)
	appointmentsSvc := appointments.NewService(appointments.NewMemoryRepository(), patientsSvc)
	attachmentsSvc := attachments.NewService(attachments.NewMemoryRepository(), attachments.NewMemoryStore(), patientsSvc)

	r := gin.New()
	api := r.Group("/api")
	protected := r.Group("/api", middleware.AuthMiddleware(cfg.JWT.Secret))

	NewAuthHandler(cfg, doctorsSvc).Register(api, protected)
	NewPatientsHandler(patientsSvc).Register(protected)
	NewVisitsHandler(visitsSvc).Register(protected)
	NewAppointmentsHandler(appointmentsSvc).Register(protected)
	NewAttachmentsHandler(attachmentsSvc).Register(protected)
	NewDashboardHandler(patientsSvc, appointmentsSvc).Register(protected)
	RegisterSwagger(r)

	return &testServer{router: r, cfg: cfg}
}

// do sends a JSON request, optionally authenticated.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a doctor and returns a usable bearer token.
func (s *testServer) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Dr. Test", "email": email, "password": "s3cret-pass", "specialty": "General",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createPatient creates a patient for the token's doctor and returns its id.
func (s *testServer) createPatient(t *testing.T, token, contact string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/patients", token, gin.H{
		"firstName": "Asha", "lastName": "Rao",
		"dateOfBirth": "1985-03-12T00:00:00Z", "gender": "Female",
		"contactNumber": contact, "address": "12 Lake Rd",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Patient struct {
			ID string `json:"id"`
		} `json:"patient"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Patient.ID)
	return resp.Patient.ID
}
