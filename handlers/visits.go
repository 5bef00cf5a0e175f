package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
	"github.com/clinicdesk/clinicdesk/internal/visits"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

type MedicationPayload struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
	Duration  string `json:"duration" binding:"required"`
}

type CreateVisitRequest struct {
	Patient               string              `json:"patient" binding:"required"`
	VisitDate             *time.Time          `json:"visitDate"`
	Reason                string              `json:"reason" binding:"required"`
	Diagnosis             string              `json:"diagnosis"`
	TreatmentNotes        string              `json:"treatmentNotes"`
	PrescribedMedications []MedicationPayload `json:"prescribedMedications" binding:"omitempty,dive"`
	NextAppointment       *time.Time          `json:"nextAppointment"`
}

// UpdateVisitRequest cannot move a visit to another patient.
type UpdateVisitRequest struct {
	VisitDate             *time.Time           `json:"visitDate"`
	Reason                *string              `json:"reason"`
	Diagnosis             *string              `json:"diagnosis"`
	TreatmentNotes        *string              `json:"treatmentNotes"`
	PrescribedMedications *[]MedicationPayload `json:"prescribedMedications" binding:"omitempty,dive"`
	NextAppointment       *time.Time           `json:"nextAppointment"`
}

type VisitsHandler struct {
	svc *visits.Service
}

func NewVisitsHandler(svc *visits.Service) *VisitsHandler {
	return &VisitsHandler{svc: svc}
}

func (h *VisitsHandler) Register(rg *gin.RouterGroup) {
	v := rg.Group("/visits")
	v.GET("", h.List)
	v.POST("", h.Create)
	v.GET("/:visitId", h.Get)
	v.PUT("/:visitId", h.Update)
	v.DELETE("/:visitId", h.Delete)
}

func medications(in []MedicationPayload) []models.Medication {
	out := make([]models.Medication, 0, len(in))
	for _, m := range in {
		out = append(out, models.Medication{Name: m.Name, Dosage: m.Dosage, Frequency: m.Frequency, Duration: m.Duration})
	}
	return out
}

// List returns the visit history for one of the doctor's patients, newest
// first. patientId is required.
func (h *VisitsHandler) List(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	raw := c.Query("patientId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "patientId query parameter is required"})
		return
	}
	patientID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patientId"})
		return
	}

	list, err := h.svc.ListByPatient(c.Request.Context(), patientID, doctor)
	if err != nil {
		if errors.Is(err, visits.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("list visits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch visits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visits": list})
}

func (h *VisitsHandler) Create(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	patientID, err := primitive.ObjectIDFromHex(req.Patient)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patient"})
		return
	}

	v := &models.Visit{
		Patient:               patientID,
		Doctor:                doctor,
		Reason:                req.Reason,
		Diagnosis:             req.Diagnosis,
		TreatmentNotes:        req.TreatmentNotes,
		PrescribedMedications: medications(req.PrescribedMedications),
		NextAppointment:       req.NextAppointment,
	}
	if req.VisitDate != nil {
		v.VisitDate = *req.VisitDate
	}
	if err := h.svc.Create(c.Request.Context(), v); err != nil {
		if errors.Is(err, visits.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("create visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create visit"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Visit recorded successfully", "visit": v})
}

func (h *VisitsHandler) Get(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visitId")
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id, doctor)
	if err != nil {
		if errors.Is(err, visits.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Visit not found"})
			return
		}
		logger.Errorf("get visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch visit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visit": v})
}

func (h *VisitsHandler) Update(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visitId")
	if !ok {
		return
	}
	var req UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	params := &visits.UpdateParams{
		VisitDate:       req.VisitDate,
		Reason:          req.Reason,
		Diagnosis:       req.Diagnosis,
		TreatmentNotes:  req.TreatmentNotes,
		NextAppointment: req.NextAppointment,
	}
	if req.PrescribedMedications != nil {
		meds := medications(*req.PrescribedMedications)
		params.PrescribedMedications = &meds
	}
	v, err := h.svc.Update(c.Request.Context(), id, doctor, params)
	if err != nil {
		if errors.Is(err, visits.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Visit not found"})
			return
		}
		logger.Errorf("update visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update visit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit updated successfully", "visit": v})
}

func (h *VisitsHandler) Delete(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visitId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, doctor); err != nil {
		if errors.Is(err, visits.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Visit not found"})
			return
		}
		logger.Errorf("delete visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete visit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit deleted successfully"})
}
