package visits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/models"
	"github.com/clinicdesk/clinicdesk/internal/patients"
)

func setup(t *testing.T) (*Service, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	psvc := patients.NewService(patients.NewMemoryRepository())
	doctorID := primitive.NewObjectID()
	p := &models.Patient{
		FirstName:     "Jean",
		LastName:      "Dupont",
		Gender:        "Male",
		ContactNumber: "0600000001",
		Address:       "12 Rue de la Paix",
		Doctor:        doctorID,
	}
	require.NoError(t, psvc.Create(context.Background(), p))
	return NewService(NewMemoryRepository(), psvc), doctorID, p.ID
}

func TestCreate_RequiresOwnedPatient(t *testing.T) {
	svc, doctorID, patientID := setup(t)

	v := &models.Visit{Patient: patientID, Doctor: doctorID, Reason: "Annual checkup"}
	require.NoError(t, svc.Create(context.Background(), v))
	assert.False(t, v.ID.IsZero())
	assert.False(t, v.VisitDate.IsZero(), "visit date should default to creation time")

	// a patient owned by a different doctor is reported as missing
	other := primitive.NewObjectID()
	err := svc.Create(context.Background(), &models.Visit{Patient: patientID, Doctor: other, Reason: "x"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListByPatient_NewestFirst(t *testing.T) {
	svc, doctorID, patientID := setup(t)

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	require.NoError(t, svc.Create(context.Background(), &models.Visit{Patient: patientID, Doctor: doctorID, Reason: "old", VisitDate: older}))
	require.NoError(t, svc.Create(context.Background(), &models.Visit{Patient: patientID, Doctor: doctorID, Reason: "new", VisitDate: newer}))

	list, err := svc.ListByPatient(context.Background(), patientID, doctorID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Reason)
	assert.Equal(t, "old", list[1].Reason)

	_, err = svc.ListByPatient(context.Background(), patientID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUpdate_ScopedAndFieldwise(t *testing.T) {
	svc, doctorID, patientID := setup(t)

	v := &models.Visit{Patient: patientID, Doctor: doctorID, Reason: "Annual checkup"}
	require.NoError(t, svc.Create(context.Background(), v))

	diag := "Hypertension"
	meds := []models.Medication{{Name: "Amlodipine", Dosage: "5mg", Frequency: "1/day", Duration: "30 days"}}
	updated, err := svc.Update(context.Background(), v.ID, doctorID, &UpdateParams{
		Diagnosis:             &diag,
		PrescribedMedications: &meds,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hypertension", updated.Diagnosis)
	require.Len(t, updated.PrescribedMedications, 1)
	assert.Equal(t, "Annual checkup", updated.Reason, "untouched fields stay")
	assert.Equal(t, patientID, updated.Patient, "patient reference cannot change")

	_, err = svc.Update(context.Background(), v.ID, primitive.NewObjectID(), &UpdateParams{Diagnosis: &diag})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Scoped(t *testing.T) {
	svc, doctorID, patientID := setup(t)

	v := &models.Visit{Patient: patientID, Doctor: doctorID, Reason: "Annual checkup"}
	require.NoError(t, svc.Create(context.Background(), v))

	assert.ErrorIs(t, svc.Delete(context.Background(), v.ID, primitive.NewObjectID()), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), v.ID, doctorID))
	_, err := svc.Get(context.Background(), v.ID, doctorID)
	assert.ErrorIs(t, err, ErrNotFound)
}
