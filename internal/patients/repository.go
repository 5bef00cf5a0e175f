package patients

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

var (
	// ErrNotFound covers both a missing record and one owned by another
	// doctor; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicate is returned when the (doctor, contactNumber) or
	// (doctor, email) uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate patient")
)

// UpdateParams carries the mutable patient fields. Ownership references are
// deliberately absent so an update can never move a record between doctors.
type UpdateParams struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Gender         *string
	ContactNumber  *string
	Email          *string
	Address        *string
	MedicalHistory *string
}

// Repository provides doctor-scoped patient persistence
type Repository interface {
	Create(ctx context.Context, p *models.Patient) error
	List(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error)
	Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Patient, error)
	Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Patient, error)
	Delete(ctx context.Context, id, doctorID primitive.ObjectID) error
	Count(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures the per-doctor
// uniqueness indexes. The email index is sparse so patients without an email
// do not collide.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "doctor", Value: 1}, {Key: "contactNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "doctor", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Patient) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"doctor": doctorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Patient{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := r.col.FindOne(ctx, bson.M{"_id": id, "doctor": doctorID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) Update(ctx context.Context, id, doctorID primitive.ObjectID, params *UpdateParams) (*models.Patient, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.FirstName != nil {
		set["firstName"] = *params.FirstName
	}
	if params.LastName != nil {
		set["lastName"] = *params.LastName
	}
	if params.DateOfBirth != nil {
		set["dateOfBirth"] = *params.DateOfBirth
	}
	if params.Gender != nil {
		set["gender"] = *params.Gender
	}
	if params.ContactNumber != nil {
		set["contactNumber"] = *params.ContactNumber
	}
	if params.Email != nil {
		set["email"] = *params.Email
	}
	if params.Address != nil {
		set["address"] = *params.Address
	}
	if params.MedicalHistory != nil {
		set["medicalHistory"] = *params.MedicalHistory
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Patient
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "doctor": doctorID}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "doctor": doctorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	// Visits and appointments for the patient stay in place; every query
	// route re-checks patient ownership so orphans are unreachable.
	return nil
}

func (r *MongoRepository) Count(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"doctor": doctorID})
}
