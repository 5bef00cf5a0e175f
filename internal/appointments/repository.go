package appointments

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

// ErrNotFound covers both a missing appointment and one owned by another doctor.
var ErrNotFound = errors.New("appointment not found")

// ListFilter narrows a doctor's appointment listing. Start/End are absolute
// bounds on startTime, both inclusive.
type ListFilter struct {
	Patient *primitive.ObjectID
	Start   *time.Time
	End     *time.Time
}

// UpdateParams carries the mutable appointment fields. Patient and doctor
// references are deliberately absent.
type UpdateParams struct {
	StartTime *time.Time
	EndTime   *time.Time
	Reason    *string
	Status    *string
	Notes     *string
}

// Repository provides doctor-scoped appointment persistence
type Repository interface {
	Create(ctx context.Context, a *models.Appointment) error
	List(ctx context.Context, doctorID primitive.ObjectID, filter ListFilter) ([]models.Appointment, error)
	Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Appointment, error)
	Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Appointment, error)
	Delete(ctx context.Context, id, doctorID primitive.ObjectID) error
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "startTime", Value: 1}, {Key: "endTime", Value: 1}}},
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "startTime", Value: 1}}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Appointment) error {
	now := time.Now().UTC()
	if a.Status == "" {
		a.Status = models.StatusScheduled
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, doctorID primitive.ObjectID, filter ListFilter) ([]models.Appointment, error) {
	query := bson.M{"doctor": doctorID}
	if filter.Patient != nil {
		query["patient"] = *filter.Patient
	}
	if filter.Start != nil && filter.End != nil {
		query["startTime"] = bson.M{"$gte": *filter.Start, "$lte": *filter.End}
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id, "doctor": doctorID}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Appointment, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.StartTime != nil {
		set["startTime"] = *params.StartTime
	}
	if params.EndTime != nil {
		set["endTime"] = *params.EndTime
	}
	if params.Reason != nil {
		set["reason"] = *params.Reason
	}
	if params.Status != nil {
		set["status"] = *params.Status
	}
	if params.Notes != nil {
		set["notes"] = *params.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Appointment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "doctor": doctorID}, bson.M{"$set": set}, opts).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
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
