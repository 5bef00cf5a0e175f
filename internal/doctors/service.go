package doctors

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

var (
	// ErrEmailTaken is returned when a signup email is already registered.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the caller cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service encapsulates doctor account business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Signup hashes the password and persists a new doctor account.
func (s *Service) Signup(ctx context.Context, name, email, password, specialty string) (*models.Doctor, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	d := &models.Doctor{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Specialty:    specialty,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		// the unique index catches signups racing the existence check
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return d, nil
}

// Login verifies the credentials and returns the matching doctor.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Doctor, error) {
	d, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return d, nil
}

// GetByID loads a doctor account; returns (nil, nil) when missing.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}
