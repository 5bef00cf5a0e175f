package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

var ErrPatientNotFound = errors.New("patient not found")

// PatientVerifier checks that a patient exists and belongs to a doctor
type PatientVerifier interface {
	Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error)
}

// Service stores patient file attachments: bytes in the object store,
// metadata in the repository.
type Service struct {
	repo     Repository
	store    ObjectStore
	patients PatientVerifier
}

func NewService(repo Repository, store ObjectStore, patients PatientVerifier) *Service {
	return &Service{repo: repo, store: store, patients: patients}
}

// Upload streams the file to the object store under a key derived from the
// patient, then records its metadata.
func (s *Service) Upload(ctx context.Context, doctorID, patientID primitive.ObjectID, fileName, contentType string, size int64, reader io.Reader) (*models.Attachment, error) {
	ok, err := s.patients.Exists(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	key := fmt.Sprintf("patients/%s/%d-%s", patientID.Hex(), time.Now().UnixNano(), fileName)
	if err := s.store.Put(ctx, key, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	a := &models.Attachment{
		Patient:     patientID,
		Doctor:      doctorID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ObjectKey:   key,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// best effort: don't leave orphaned bytes behind
		s.store.Remove(ctx, key)
		return nil, err
	}
	return a, nil
}

// ListByPatient returns attachment metadata for one of the doctor's patients,
// newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Attachment, error) {
	ok, err := s.patients.Exists(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID, doctorID)
}

// Download returns the metadata and a reader over the stored bytes. The
// attachment must belong to the given patient and doctor. The caller must
// close the reader.
func (s *Service) Download(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.repo.Get(ctx, id, patientID, doctorID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Get(ctx, a.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return a, rc, nil
}

// PresignedURL returns a time-limited direct download link.
func (s *Service) PresignedURL(ctx context.Context, id, patientID, doctorID primitive.ObjectID, expires time.Duration) (string, error) {
	a, err := s.repo.Get(ctx, id, patientID, doctorID)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, a.ObjectKey, expires)
}

// Delete removes the metadata record and then the stored bytes.
func (s *Service) Delete(ctx context.Context, id, patientID, doctorID primitive.ObjectID) error {
	a, err := s.repo.Delete(ctx, id, patientID, doctorID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, a.ObjectKey)
}
