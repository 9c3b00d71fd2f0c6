package store

import (
	"context"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Actions wraps the admin_actions collection. Records are append-only; the
// store exposes no update or delete operation for them.
type Actions struct {
	collection *mongo.Collection
}

func NewActions(db *mongo.Database) *Actions {
	return &Actions{collection: db.Collection("admin_actions")}
}

func (s *Actions) Insert(ctx context.Context, action *models.AdminAction) error {
	_, err := s.collection.InsertOne(ctx, action)
	return err
}

// List returns audit records matching filter, newest first.
func (s *Actions) List(ctx context.Context, filter bson.M, skip, limit int64) ([]models.AdminAction, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	actions := make([]models.AdminAction, 0)
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *Actions) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.collection.CountDocuments(ctx, filter)
}
