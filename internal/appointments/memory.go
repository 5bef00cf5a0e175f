package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments map[primitive.ObjectID]models.Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{appointments: make(map[primitive.ObjectID]models.Appointment)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if a.Status == "" {
		a.Status = models.StatusScheduled
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.appointments[a.ID] = *a
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, doctorID primitive.ObjectID, filter ListFilter) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Appointment{}
	for _, a := range r.appointments {
		if a.Doctor != doctorID {
			continue
		}
		if filter.Patient != nil && a.Patient != *filter.Patient {
			continue
		}
		if filter.Start != nil && filter.End != nil {
			if a.StartTime.Before(*filter.Start) || a.StartTime.After(*filter.End) {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[id]
	if !ok || a.Doctor != doctorID {
		return nil, ErrNotFound
	}
	copy := a
	return &copy, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Doctor != doctorID {
		return nil, ErrNotFound
	}
	if params.StartTime != nil {
		a.StartTime = *params.StartTime
	}
	if params.EndTime != nil {
		a.EndTime = *params.EndTime
	}
	if params.Reason != nil {
		a.Reason = *params.Reason
	}
	if params.Status != nil {
		a.Status = *params.Status
	}
	if params.Notes != nil {
		a.Notes = *params.Notes
	}
	a.UpdatedAt = time.Now().UTC()
	r.appointments[id] = a
	copy := a
	return &copy, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Doctor != doctorID {
		return ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}
