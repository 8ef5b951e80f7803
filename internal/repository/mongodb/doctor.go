package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ELYASDARK/uhc-admin-api/internal/model"
	"github.com/ELYASDARK/uhc-admin-api/internal/repository"
)

const doctorCollection = "doctors"

type DoctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{coll: db.Collection(doctorCollection)}
}

func (r *DoctorRepository) Get(ctx context.Context, id string) (*model.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any document.
		return nil, repository.ErrNotFound
	}

	var doctor model.Doctor
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *DoctorRepository) Add(ctx context.Context, doctor *model.Doctor) (string, error) {
	res, err := r.coll.InsertOne(ctx, doctor)
	if err != nil {
		return "", fmt.Errorf("failed to add doctor: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *DoctorRepository) UpdateEmail(ctx context.Context, id, email string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{"$set": bson.M{"email": email, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update doctor email: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}
