package patients

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// Service wraps repository operations with doctor-scoped business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Create(ctx context.Context, p *models.Patient) error {
	return s.repo.Create(ctx, p)
}

func (s *Service) List(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	return s.repo.List(ctx, doctorID)
}

func (s *Service) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Patient, error) {
	return s.repo.Get(ctx, id, doctorID)
}

func (s *Service) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Patient, error) {
	return s.repo.Update(ctx, id, doctorID, params)
}

func (s *Service) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	return s.repo.Delete(ctx, id, doctorID)
}

func (s *Service) Count(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	return s.repo.Count(ctx, doctorID)
}

// Exists reports whether the patient belongs to the doctor. Used as the
// parent-ownership check before dependent writes (visits, appointments,
// attachments).
func (s *Service) Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error) {
	_, err := s.repo.Get(ctx, id, doctorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
