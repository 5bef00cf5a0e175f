package visits

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicdesk/clinicdesk/internal/models"
)

// ErrNotFound covers both a missing visit and one owned by another doctor.
var ErrNotFound = errors.New("visit not found")

// UpdateParams carries the mutable visit fields. Patient and doctor
// references are deliberately absent.
type UpdateParams struct {
	VisitDate             *time.Time
	Reason                *string
	Diagnosis             *string
	TreatmentNotes        *string
	PrescribedMedications *[]models.Medication
	NextAppointment       *time.Time
}

// Repository provides doctor-scoped visit persistence
type Repository interface {
	Create(ctx context.Context, v *models.Visit) error
	ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Visit, error)
	Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Visit, error)
	Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Visit, error)
	Delete(ctx context.Context, id, doctorID primitive.ObjectID) error
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "visitDate", Value: -1}}},
		{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "visitDate", Value: -1}}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, v *models.Visit) error {
	now := time.Now().UTC()
	if v.VisitDate.IsZero() {
		v.VisitDate = now
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, v)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		v.ID = oid
	}
	return nil
}

func (r *MongoRepository) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Visit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "visitDate", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"patient": patientID, "doctor": doctorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Visit{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Visit, error) {
	var v models.Visit
	err := r.col.FindOne(ctx, bson.M{"_id": id, "doctor": doctorID}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *MongoRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Visit, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.VisitDate != nil {
		set["visitDate"] = *params.VisitDate
	}
	if params.Reason != nil {
		set["reason"] = *params.Reason
	}
	if params.Diagnosis != nil {
		set["diagnosis"] = *params.Diagnosis
	}
	if params.TreatmentNotes != nil {
		set["treatmentNotes"] = *params.TreatmentNotes
	}
	if params.PrescribedMedications != nil {
		set["prescribedMedications"] = *params.PrescribedMedications
	}
	if params.NextAppointment != nil {
		set["nextAppointment"] = *params.NextAppointment
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.Visit
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "doctor": doctorID}, bson.M{"$set": set}, opts).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "doctor": doctorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
