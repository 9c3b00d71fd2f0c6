package store

import (
	"context"
	"errors"
	"time"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Issues wraps the issues collection.
type Issues struct {
	collection *mongo.Collection
}

func NewIssues(db *mongo.Database) *Issues {
	return &Issues{collection: db.Collection("issues")}
}

func (s *Issues) Insert(ctx context.Context, issue *models.Issue) error {
	_, err := s.collection.InsertOne(ctx, issue)
	return err
}

func (s *Issues) Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		return nil, translate(err)
	}
	return &issue, nil
}

// AppendUpvote atomically inserts a ledger entry for userID, conditioned on
// no entry for that user existing. The count is bumped in the same update, so
// the count==len(ledger) invariant holds even under concurrent writers.
// Returns ErrNoMatch when the issue is missing or the user already upvoted.
func (s *Issues) AppendUpvote(ctx context.Context, issueID, userID primitive.ObjectID, at time.Time) (*models.Issue, error) {
	filter := bson.M{
		"_id":                  issueID,
		"upvotes.users.userId": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{"upvotes.users": models.UpvoteEntry{UserID: userID, UpvotedAt: at}},
		"$inc":  bson.M{"upvotes.count": 1},
		"$set":  bson.M{"updatedAt": at},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// RemoveUpvote atomically pulls userID's ledger entry, conditioned on the
// entry existing with an upvotedAt at or after cutoff. The window check is
// evaluated against the stored timestamp inside the same operation, never
// against a stale read. Returns ErrNoMatch when the issue is missing, the
// entry is absent, or the entry is older than cutoff.
func (s *Issues) RemoveUpvote(ctx context.Context, issueID, userID primitive.ObjectID, cutoff, at time.Time) (*models.Issue, error) {
	filter := bson.M{
		"_id": issueID,
		"upvotes.users": bson.M{"$elemMatch": bson.M{
			"userId":    userID,
			"upvotedAt": bson.M{"$gte": cutoff},
		}},
	}
	update := bson.M{
		"$pull": bson.M{"upvotes.users": bson.M{"userId": userID}},
		"$inc":  bson.M{"upvotes.count": -1},
		"$set":  bson.M{"updatedAt": at},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// HealUpvotes overwrites the stored ledger with a normalized copy. Best
// effort, used only by read paths that detected invariant drift in legacy
// records.
func (s *Issues) HealUpvotes(ctx context.Context, issueID primitive.ObjectID, upvotes models.Upvotes) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"upvotes": upvotes}},
	)
	return err
}

// UpdateStatus sets the issue status (optionally appending a comment) in one
// atomic update and returns the document as it was BEFORE the update, so the
// caller has the old status for the audit record.
func (s *Issues) UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, comment *models.Comment, at time.Time) (*models.Issue, error) {
	update := bson.M{
		"$set": bson.M{"status": status, "updatedAt": at},
	}
	if comment != nil {
		update["$push"] = bson.M{"comments": comment}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.Issue
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": issueID}, update, opts).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &before, nil
}

func (s *Issues) Delete(ctx context.Context, issueID primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": issueID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Issues) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.collection.CountDocuments(ctx, filter)
}

// List returns issues matching filter with the given sort and pagination.
func (s *Issues) List(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(sort)
	if skip > 0 {
		findOptions = findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions = findOptions.SetLimit(limit)
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := make([]models.Issue, 0)
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// Aggregate runs an aggregation pipeline, used by the admin dashboard.
func (s *Issues) Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error) {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]bson.M, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
