package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk/internal/models"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

type CreatePatientRequest struct {
	FirstName      string    `json:"firstName" binding:"required"`
	LastName       string    `json:"lastName" binding:"required"`
	DateOfBirth    time.Time `json:"dateOfBirth" binding:"required"`
	Gender         string    `json:"gender" binding:"required,oneof=Male Female Other"`
	ContactNumber  string    `json:"contactNumber" binding:"required"`
	Email          string    `json:"email" binding:"omitempty,email"`
	Address        string    `json:"address" binding:"required"`
	MedicalHistory string    `json:"medicalHistory"`
}

// UpdatePatientRequest uses pointers so omitted fields stay untouched.
// The owning doctor cannot be changed through this payload.
type UpdatePatientRequest struct {
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Gender         *string    `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	ContactNumber  *string    `json:"contactNumber"`
	Email          *string    `json:"email" binding:"omitempty,email"`
	Address        *string    `json:"address"`
	MedicalHistory *string    `json:"medicalHistory"`
}

type PatientsHandler struct {
	svc *patients.Service
}

func NewPatientsHandler(svc *patients.Service) *PatientsHandler {
	return &PatientsHandler{svc: svc}
}

func (h *PatientsHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/patients")
	p.GET("", h.List)
	p.POST("", h.Create)
	p.GET("/:patientId", h.Get)
	p.PUT("/:patientId", h.Update)
	p.DELETE("/:patientId", h.Delete)
}

func (h *PatientsHandler) List(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), doctor)
	if err != nil {
		logger.Errorf("list patients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch patients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": list})
}

func (h *PatientsHandler) Create(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	p := &models.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		Doctor:         doctor,
	}
	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		if errors.Is(err, patients.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"message": "Patient with this contact number or email already exists"})
			return
		}
		logger.Errorf("create patient: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create patient"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Patient created successfully", "patient": p})
}

func (h *PatientsHandler) Get(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, doctor)
	if err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("get patient: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch patient"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *PatientsHandler) Update(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	params := &patients.UpdateParams{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	}
	p, err := h.svc.Update(c.Request.Context(), id, doctor, params)
	if err != nil {
		switch {
		case errors.Is(err, patients.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
		case errors.Is(err, patients.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"message": "Patient with this contact number or email already exists"})
		default:
			logger.Errorf("update patient: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update patient"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully", "patient": p})
}

func (h *PatientsHandler) Delete(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, doctor); err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("delete patient: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete patient"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
