package visits

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*models.Visit
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Visit)}
}

func (m *MemoryRepository) Create(ctx context.Context, v *models.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if v.VisitDate.IsZero() {
		v.VisitDate = now
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	cp := *v
	m.store[v.ID.Hex()] = &cp
	return nil
}

func (m *MemoryRepository) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Visit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Visit{}
	for _, v := range m.store {
		if v.Patient == patientID && v.Doctor == doctorID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Visit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[id.Hex()]
	if !ok || v.Doctor != doctorID {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[id.Hex()]
	if !ok || v.Doctor != doctorID {
		return nil, ErrNotFound
	}
	if params.VisitDate != nil {
		v.VisitDate = *params.VisitDate
	}
	if params.Reason != nil {
		v.Reason = *params.Reason
	}
	if params.Diagnosis != nil {
		v.Diagnosis = *params.Diagnosis
	}
	if params.TreatmentNotes != nil {
		v.TreatmentNotes = *params.TreatmentNotes
	}
	if params.PrescribedMedications != nil {
		v.PrescribedMedications = *params.PrescribedMedications
	}
	if params.NextAppointment != nil {
		na := *params.NextAppointment
		v.NextAppointment = &na
	}
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	return &cp, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[id.Hex()]
	if !ok || v.Doctor != doctorID {
		return ErrNotFound
	}
	delete(m.store, id.Hex())
	return nil
}
