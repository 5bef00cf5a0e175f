package appointments

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

func setup(t *testing.T, doctorID primitive.ObjectID) (*Service, *models.Patient) {
	t.Helper()
	patientSvc := patients.NewService(patients.NewMemoryRepository())
	p := &models.Patient{
		Doctor:        doctorID,
		FirstName:     "Asha",
		LastName:      "Rao",
		DateOfBirth:   time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
		Gender:        "Female",
		ContactNumber: "555-0100",
		Address:       "12 Lake Rd",
	}
	require.NoError(t, patientSvc.Create(context.Background(), p))
	return NewService(NewMemoryRepository(), patientSvc), p
}

func at(day string, hour int) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestCreateDefaultsStatusScheduled(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)

	a := &models.Appointment{
		Doctor:    doctorID,
		Patient:   p.ID,
		StartTime: at("2026-09-01", 9),
		EndTime:   at("2026-09-01", 10),
		Reason:    "checkup",
	}
	require.NoError(t, svc.Create(context.Background(), a))
	assert.Equal(t, models.StatusScheduled, a.Status)
	assert.False(t, a.ID.IsZero())
}

func TestCreateRejectsForeignPatient(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)

	a := &models.Appointment{
		Doctor:    primitive.NewObjectID(),
		Patient:   p.ID,
		StartTime: at("2026-09-01", 9),
		EndTime:   at("2026-09-01", 10),
		Reason:    "checkup",
	}
	err := svc.Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListDateWindow(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)
	ctx := context.Background()

	days := []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04"}
	for _, day := range days {
		a := &models.Appointment{
			Doctor:    doctorID,
			Patient:   p.ID,
			StartTime: at(day, 14),
			EndTime:   at(day, 15),
			Reason:    "followup",
		}
		require.NoError(t, svc.Create(ctx, a))
	}

	got, err := svc.List(ctx, doctorID, nil, "2026-09-02", "2026-09-03")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, at("2026-09-02", 14), got[0].StartTime)
	assert.Equal(t, at("2026-09-03", 14), got[1].StartTime)

	// startDate alone narrows to that single day
	got, err = svc.List(ctx, doctorID, nil, "2026-09-01", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, at("2026-09-01", 14), got[0].StartTime)

	// endDate without startDate is ignored
	got, err = svc.List(ctx, doctorID, nil, "", "2026-09-02")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestListWindowBoundariesInclusive(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)
	ctx := context.Background()

	midnight := at("2026-09-02", 0)
	lastMoment := at("2026-09-02", 23).Add(59*time.Minute + 59*time.Second + 999*time.Millisecond)
	for _, start := range []time.Time{midnight, lastMoment, at("2026-09-03", 0)} {
		a := &models.Appointment{
			Doctor:    doctorID,
			Patient:   p.ID,
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Reason:    "slot",
		}
		require.NoError(t, svc.Create(ctx, a))
	}

	got, err := svc.List(ctx, doctorID, nil, "2026-09-02", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, midnight, got[0].StartTime)
	assert.Equal(t, lastMoment, got[1].StartTime)
}

func TestListSortedAscendingAndFilteredByPatient(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)
	ctx := context.Background()

	for _, hour := range []int{16, 9, 12} {
		a := &models.Appointment{
			Doctor:    doctorID,
			Patient:   p.ID,
			StartTime: at("2026-09-05", hour),
			EndTime:   at("2026-09-05", hour+1),
			Reason:    "slot",
		}
		require.NoError(t, svc.Create(ctx, a))
	}

	got, err := svc.List(ctx, doctorID, &p.ID, "", "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].StartTime.Before(got[1].StartTime))
	assert.True(t, got[1].StartTime.Before(got[2].StartTime))

	other := primitive.NewObjectID()
	got, err = svc.List(ctx, doctorID, &other, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListRejectsMalformedDate(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, _ := setup(t, doctorID)

	_, err := svc.List(context.Background(), doctorID, nil, "09/01/2026", "")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestUpdateScopedToDoctor(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)
	ctx := context.Background()

	a := &models.Appointment{
		Doctor:    doctorID,
		Patient:   p.ID,
		StartTime: at("2026-09-01", 9),
		EndTime:   at("2026-09-01", 10),
		Reason:    "checkup",
	}
	require.NoError(t, svc.Create(ctx, a))

	status := models.StatusCancelled
	updated, err := svc.Update(ctx, a.ID, doctorID, &UpdateParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, a.Reason, updated.Reason)
	assert.Equal(t, p.ID, updated.Patient)

	_, err = svc.Update(ctx, a.ID, primitive.NewObjectID(), &UpdateParams{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteScopedToDoctor(t *testing.T) {
	doctorID := primitive.NewObjectID()
	svc, p := setup(t, doctorID)
	ctx := context.Background()

	a := &models.Appointment{
		Doctor:    doctorID,
		Patient:   p.ID,
		StartTime: at("2026-09-01", 9),
		EndTime:   at("2026-09-01", 10),
		Reason:    "checkup",
	}
	require.NoError(t, svc.Create(ctx, a))

	assert.ErrorIs(t, svc.Delete(ctx, a.ID, primitive.NewObjectID()), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, a.ID, doctorID))
	_, err := svc.Get(ctx, a.ID, doctorID)
	assert.ErrorIs(t, err, ErrNotFound)
}
