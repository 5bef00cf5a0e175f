package patients

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests. It enforces
// the same per-doctor uniqueness rules as the Mongo indexes.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*models.Patient
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Patient)}
}

func (m *MemoryRepository) isDuplicate(p *models.Patient) bool {
	for _, other := range m.store {
		if other.ID == p.ID || other.Doctor != p.Doctor {
			continue
		}
		if other.ContactNumber == p.ContactNumber {
			return true
		}
		if p.Email != "" && other.Email == p.Email {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) Create(ctx context.Context, p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if m.isDuplicate(p) {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID.Hex()] = &cp
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Patient{}
	for _, p := range m.store {
		if p.Doctor == doctorID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id.Hex()]
	if !ok || p.Doctor != doctorID {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id.Hex()]
	if !ok || p.Doctor != doctorID {
		return nil, ErrNotFound
	}
	next := *p
	if params.FirstName != nil {
		next.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		next.LastName = *params.LastName
	}
	if params.DateOfBirth != nil {
		next.DateOfBirth = *params.DateOfBirth
	}
	if params.Gender != nil {
		next.Gender = *params.Gender
	}
	if params.ContactNumber != nil {
		next.ContactNumber = *params.ContactNumber
	}
	if params.Email != nil {
		next.Email = *params.Email
	}
	if params.Address != nil {
		next.Address = *params.Address
	}
	if params.MedicalHistory != nil {
		next.MedicalHistory = *params.MedicalHistory
	}
	if m.isDuplicate(&next) {
		return nil, ErrDuplicate
	}
	next.UpdatedAt = time.Now().UTC()
	m.store[id.Hex()] = &next
	cp := next
	return &cp, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id.Hex()]
	if !ok || p.Doctor != doctorID {
		return ErrNotFound
	}
	delete(m.store, id.Hex())
	return nil
}

func (m *MemoryRepository) Count(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, p := range m.store {
		if p.Doctor == doctorID {
			n++
		}
	}
	return n, nil
}
