package attachments

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

var ErrNotFound = errors.New("attachment not found")

// Repository stores attachment metadata; the bytes live in the object store
type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Attachment, error)
	Get(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error)
	Delete(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "patient", Value: 1}, {Key: "uploadedAt", Value: -1}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Attachment) error {
	a.UploadedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (r *MongoRepository) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]models.Attachment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"patient": patientID, "doctor": doctorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Attachment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get resolves an attachment by id scoped to both the patient it was uploaded
// for and the owning doctor, so an id cannot be read under another patient's path.
func (r *MongoRepository) Get(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error) {
	var a models.Attachment
	err := r.col.FindOne(ctx, bson.M{"_id": id, "patient": patientID, "doctor": doctorID}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, patientID, doctorID primitive.ObjectID) (*models.Attachment, error) {
	var a models.Attachment
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "patient": patientID, "doctor": doctorID}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
