package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/models"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

type CreateAppointmentRequest struct {
	Patient   string    `json:"patient" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
	Status    string    `json:"status" binding:"omitempty,oneof=Scheduled Completed Cancelled Rescheduled"`
	Notes     string    `json:"notes"`
}

// UpdateAppointmentRequest cannot move an appointment to another patient.
type UpdateAppointmentRequest struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Reason    *string    `json:"reason"`
	Status    *string    `json:"status" binding:"omitempty,oneof=Scheduled Completed Cancelled Rescheduled"`
	Notes     *string    `json:"notes"`
}

type AppointmentsHandler struct {
	svc *appointments.Service
}

func NewAppointmentsHandler(svc *appointments.Service) *AppointmentsHandler {
	return &AppointmentsHandler{svc: svc}
}

func (h *AppointmentsHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/appointments")
	a.GET("", h.List)
	a.POST("", h.Create)
	a.GET("/:appointmentId", h.Get)
	a.PUT("/:appointmentId", h.Update)
	a.DELETE("/:appointmentId", h.Delete)
}

// List returns the doctor's appointments, optionally narrowed by patientId
// and by a startDate/endDate day window.
func (h *AppointmentsHandler) List(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var patient *primitive.ObjectID
	if raw := c.Query("patientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patientId"})
			return
		}
		patient = &id
	}

	list, err := h.svc.List(c.Request.Context(), doctor, patient, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		if errors.Is(err, appointments.ErrBadDate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		logger.Errorf("list appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

func (h *AppointmentsHandler) Create(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	patientID, err := primitive.ObjectIDFromHex(req.Patient)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patient"})
		return
	}

	a := &models.Appointment{
		Patient:   patientID,
		Doctor:    doctor,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if err := h.svc.Create(c.Request.Context(), a); err != nil {
		if errors.Is(err, appointments.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("create appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create appointment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment scheduled successfully", "appointment": a})
}

func (h *AppointmentsHandler) Get(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointmentId")
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), id, doctor)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Appointment not found"})
			return
		}
		logger.Errorf("get appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *AppointmentsHandler) Update(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointmentId")
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	params := &appointments.UpdateParams{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	a, err := h.svc.Update(c.Request.Context(), id, doctor, params)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Appointment not found"})
			return
		}
		logger.Errorf("update appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated successfully", "appointment": a})
}

func (h *AppointmentsHandler) Delete(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointmentId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, doctor); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Appointment not found"})
			return
		}
		logger.Errorf("delete appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
