package attachments

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
	mu          sync.RWMutex
	attachments map[primitive.ObjectID]models.Attachment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{attachments: make(map[primitive.ObjectID]models.Attachment)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.UploadedAt = time.Now().UTC()
	r.attachments[a.ID] = *a
	return nil
}

func (r *MemoryRepository) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Attachment{}
	for _, a := range r.attachments {
		if a.Patient == patientID && a.Doctor == doctorID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attachments[id]
	if !ok || a.Patient != patientID || a.Doctor != doctorID {
		return nil, ErrNotFound
	}
	copy := a
	return &copy, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok || a.Patient != patientID || a.Doctor != doctorID {
		return nil, ErrNotFound
	}
	delete(r.attachments, id)
	copy := a
	return &copy, nil
}

// MemoryStore is an in-memory ObjectStore for tests
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStore) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", ErrNotFound
	}
	return "memory://" + key, nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
