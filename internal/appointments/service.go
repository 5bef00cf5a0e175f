package appointments

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrBadDate         = errors.New("invalid date, expected YYYY-MM-DD")
)

// PatientVerifier checks that a patient exists and belongs to a doctor
type PatientVerifier interface {
	Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error)
}

// Service implements appointment scheduling on top of a Repository
type Service struct {
	repo     Repository
	patients PatientVerifier
}

func NewService(repo Repository, patients PatientVerifier) *Service {
	return &Service{repo: repo, patients: patients}
}

// Create books an appointment after verifying the patient belongs to the
// doctor. Overlapping bookings for the same doctor are currently accepted.
// TODO: reject appointments whose window overlaps an existing scheduled one.
func (s *Service) Create(ctx context.Context, a *models.Appointment) error {
	ok, err := s.patients.Exists(ctx, a.Patient, a.Doctor)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPatientNotFound
	}
	return s.repo.Create(ctx, a)
}

// List returns the doctor's appointments sorted by start time. startDate and
// endDate are YYYY-MM-DD strings in server-local time; a startDate without an
// endDate limits the listing to that single day, while an endDate on its own
// is ignored.
func (s *Service) List(ctx context.Context, doctorID primitive.ObjectID, patient *primitive.ObjectID, startDate, endDate string) ([]models.Appointment, error) {
	filter := ListFilter{Patient: patient}
	if startDate != "" {
		start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			return nil, ErrBadDate
		}
		endDay := start
		if endDate != "" {
			endDay, err = time.ParseInLocation("2006-01-02", endDate, time.Local)
			if err != nil {
				return nil, ErrBadDate
			}
		}
		end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999_000_000, time.Local)
		filter.Start = &start
		filter.End = &end
	}
	return s.repo.List(ctx, doctorID, filter)
}

func (s *Service) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Appointment, error) {
	return s.repo.Get(ctx, id, doctorID)
}

func (s *Service) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Appointment, error) {
	return s.repo.Update(ctx, id, doctorID, params)
}

func (s *Service) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	return s.repo.Delete(ctx, id, doctorID)
}
