package visits

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// ErrPatientNotFound is returned when the referenced patient does not belong
// to the requesting doctor.
var ErrPatientNotFound = errors.New("patient not found")

// PatientVerifier is the ownership check dependency; satisfied by
// patients.Service.
type PatientVerifier interface {
	Exists(ctx context.Context, patientID, doctorID primitive.ObjectID) (bool, error)
}

// Service wraps repository operations with the parent-ownership check
type Service struct {
	repo     Repository
	patients PatientVerifier
}

func NewService(r Repository, p PatientVerifier) *Service {
	return &Service{repo: r, patients: p}
}

// Create records a visit after verifying the patient belongs to the doctor.
func (s *Service) Create(ctx context.Context, v *models.Visit) error {
	ok, err := s.patients.Exists(ctx, v.Patient, v.Doctor)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPatientNotFound
	}
	return s.repo.Create(ctx, v)
}

// ListByPatient returns the patient's visits, newest first, after verifying
// the patient belongs to the doctor.
func (s *Service) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Visit, error) {
	ok, err := s.patients.Exists(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID, doctorID)
}

func (s *Service) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Visit, error) {
	return s.repo.Get(ctx, id, doctorID)
}

// Update applies the given fields under the doctor-scope filter only; no
// ownership re-check beyond the filter itself.
func (s *Service) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Visit, error) {
	return s.repo.Update(ctx, id, doctorID, params)
}

func (s *Service) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	return s.repo.Delete(ctx, id, doctorID)
}
