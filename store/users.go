package store

import (
	"context"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Users wraps the users collection.
type Users struct {
	collection *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{collection: db.Collection("users")}
}

func (s *Users) Insert(ctx context.Context, user *models.User) error {
	_, err := s.collection.InsertOne(ctx, user)
	return err
}

func (s *Users) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Exists reports whether a user document with the given id is present.
func (s *Users) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmailOrPhone resolves a login identifier against either field.
func (s *Users) FindByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": identifier},
		{"phone": identifier},
	}}
	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CountByEmailOrPhone is used at signup to reject duplicates.
func (s *Users) CountByEmailOrPhone(ctx context.Context, email, phone string) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"email": email},
		{"phone": phone},
	}})
}

func (s *Users) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
