package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// ValidIssueStatus reports whether s is an accepted issue status.
// "flagged" exists only at the audit-record level, never on an issue.
func ValidIssueStatus(s string) bool {
	switch IssueStatus(s) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

func ValidIssuePriority(p string) bool {
	switch IssuePriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// UpvoteEntry is one user's upvote on an issue. UpvotedAt is set at insertion
// and never changes; removing and re-adding creates a fresh entry.
type UpvoteEntry struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UpvotedAt time.Time          `bson:"upvotedAt" json:"upvotedAt"`
}

// Upvotes is the per-issue ledger. Count is a cached integer that must always
// equal len(Users); mutations keep both consistent in one atomic update.
type Upvotes struct {
	Count int64         `bson:"count" json:"count"`
	Users []UpvoteEntry `bson:"users" json:"users"`
}

// Comment is a note on an issue, from the reporter or an admin.
type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// GeoPoint is a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Issue represents a civic issue reported by a user. Colony doubles as the
// region key admin access is checked against.
type Issue struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Status           IssueStatus        `bson:"status" json:"status"`
	Priority         IssuePriority      `bson:"priority" json:"priority"`
	ConcernAuthority string             `bson:"concernAuthority" json:"concernAuthority"`
	Reporter         primitive.ObjectID `bson:"reporter" json:"reporter"`
	Comments         []Comment          `bson:"comments" json:"comments"`
	Images           []string           `bson:"images" json:"images"`
	Tags             []string           `bson:"tags" json:"tags"`
	Colony           string             `bson:"colony" json:"colony"`
	Pincode          string             `bson:"pincode" json:"pincode"`
	Location         GeoPoint           `bson:"location" json:"location"`
	Upvotes          Upvotes            `bson:"upvotes" json:"upvotes"`
	Target           int64              `bson:"target" json:"target"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasUpvote reports whether userID holds an entry in the ledger, returning
// the entry when it does.
func (i *Issue) HasUpvote(userID primitive.ObjectID) (UpvoteEntry, bool) {
	for _, e := range i.Upvotes.Users {
		if e.UserID == userID {
			return e, true
		}
	}
	return UpvoteEntry{}, false
}

// NormalizeUpvotes drops malformed ledger entries and recomputes the cached
// count, returning true when anything changed. Read paths use it to heal
// legacy or partially-written records before serving them; the write path is
// atomic and never relies on it.
func (i *Issue) NormalizeUpvotes() bool {
	valid := i.Upvotes.Users[:0]
	for _, e := range i.Upvotes.Users {
		if !e.UserID.IsZero() {
			valid = append(valid, e)
		}
	}
	changed := len(valid) != len(i.Upvotes.Users) || i.Upvotes.Count != int64(len(valid))
	i.Upvotes.Users = valid
	i.Upvotes.Count = int64(len(valid))
	return changed
}

// EnsureIssueIndexes creates the geospatial index used by nearby-issue queries.
func EnsureIssueIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
