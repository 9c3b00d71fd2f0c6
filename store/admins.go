package store

import (
	"context"
	"time"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Admins wraps the admins collection.
type Admins struct {
	collection *mongo.Collection
}

func NewAdmins(db *mongo.Database) *Admins {
	return &Admins{collection: db.Collection("admins")}
}

func (s *Admins) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Admins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// TouchLastLogin stamps a successful admin login. Best effort.
func (s *Admins) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastLogin": at}},
	)
	return err
}
