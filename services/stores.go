package services

import (
	"context"
	"time"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStore is the slice of the issue collection the services consume.
// Implemented by store.Issues; tests substitute in-memory fakes.
type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	AppendUpvote(ctx context.Context, issueID, userID primitive.ObjectID, at time.Time) (*models.Issue, error)
	RemoveUpvote(ctx context.Context, issueID, userID primitive.ObjectID, cutoff, at time.Time) (*models.Issue, error)
	HealUpvotes(ctx context.Context, issueID primitive.ObjectID, upvotes models.Upvotes) error
	UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, comment *models.Comment, at time.Time) (*models.Issue, error)
	Delete(ctx context.Context, issueID primitive.ObjectID) error
	Count(ctx context.Context, filter bson.M) (int64, error)
	List(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Issue, error)
	Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error)
}

// UserStore is the user lookup surface the services need.
type UserStore interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// AdminStore resolves admin accounts for the authorization layer.
type AdminStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
}

// ActionStore is the append-only audit sink and its query surface.
type ActionStore interface {
	Insert(ctx context.Context, action *models.AdminAction) error
	List(ctx context.Context, filter bson.M, skip, limit int64) ([]models.AdminAction, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}
