package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

// DashboardHandler aggregates the numbers shown on the practice overview.
type DashboardHandler struct {
	patientsSvc     *patients.Service
	appointmentsSvc *appointments.Service
}

func NewDashboardHandler(p *patients.Service, a *appointments.Service) *DashboardHandler {
	return &DashboardHandler{patientsSvc: p, appointmentsSvc: a}
}

func (h *DashboardHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Summary)
}

// Summary returns the doctor's patient count and today's appointments.
func (h *DashboardHandler) Summary(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}

	count, err := h.patientsSvc.Count(c.Request.Context(), doctor)
	if err != nil {
		logger.Errorf("dashboard patient count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build dashboard"})
		return
	}

	today := time.Now().Format("2006-01-02")
	todays, err := h.appointmentsSvc.List(c.Request.Context(), doctor, nil, today, today)
	if err != nil {
		logger.Errorf("dashboard appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patientCount":       count,
		"todaysAppointments": todays,
	})
}
