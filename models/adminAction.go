package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ActionType enum for audit records.
type ActionType string

const (
	ActionStatusChange   ActionType = "status_change"
	ActionCommentAdded   ActionType = "comment_added"
	ActionIssueDeleted   ActionType = "issue_deleted"
	ActionIssueFlagged   ActionType = "issue_flagged"
	ActionIssueAssigned  ActionType = "issue_assigned"
	ActionIssueEscalated ActionType = "issue_escalated"
)

func ValidActionType(t string) bool {
	switch ActionType(t) {
	case ActionStatusChange, ActionCommentAdded, ActionIssueDeleted,
		ActionIssueFlagged, ActionIssueAssigned, ActionIssueEscalated:
		return true
	}
	return false
}

// AdminAction is one append-only audit record of an administrative mutation.
// Records are never updated or deleted after insertion.
type AdminAction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Admin      primitive.ObjectID `bson:"admin" json:"admin"`
	Issue      primitive.ObjectID `bson:"issue" json:"issue"`
	ActionType ActionType         `bson:"actionType" json:"actionType"`
	OldStatus  string             `bson:"oldStatus,omitempty" json:"oldStatus,omitempty"`
	NewStatus  string             `bson:"newStatus,omitempty" json:"newStatus,omitempty"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Metadata   bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureAdminActionIndexes creates the recency-ordered indexes the audit
// queries rely on (by admin, by issue, by action type).
func EnsureAdminActionIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "admin", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "issue", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "actionType", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
