package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voice-be/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UndoWindow is how long a user may retract an upvote after casting it.
// Past the window the upvote stands permanently; there is no override.
const UndoWindow = 60 * time.Second

// UpvoteService enforces the at-most-one-upvote-per-user ledger contract.
// Both mutations are single conditional updates at the storage layer; the
// membership and window checks are evaluated inside the update filter, so
// concurrent callers cannot slip past them.
type UpvoteService struct {
	issues IssueStore
	users  UserStore
	logger *slog.Logger
	now    func() time.Time
}

func NewUpvoteService(issues IssueStore, users UserStore, logger *slog.Logger) *UpvoteService {
	return &UpvoteService{
		issues: issues,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// UpvoteResult is the outcome of a successful AddUpvote.
type UpvoteResult struct {
	UpvoteCount int64     `json:"upvoteCount"`
	UpvotedAt   time.Time `json:"upvotedAt"`
	CanUndo     bool      `json:"canUndo"`
}

// AddUpvote appends a ledger entry for userID, rejecting a second entry for
// the same user. Exactly one of N concurrent calls for the same pair can
// succeed: the append is conditioned on "no entry for this user" inside one
// atomic storage operation.
func (s *UpvoteService) AddUpvote(ctx context.Context, issueID, userID string) (*UpvoteResult, error) {
	issueOID, userOID, err := parsePair(issueID, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, userOID)
	if err != nil {
		return nil, s.storage("users.exists", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	at := s.now().UTC()
	issue, err := s.issues.AppendUpvote(ctx, issueOID, userOID, at)
	if errors.Is(err, store.ErrNoMatch) {
		// Either the issue does not exist or the user already holds an
		// entry. A point read tells the two apart.
		if _, getErr := s.issues.Get(ctx, issueOID); getErr != nil {
			if errors.Is(getErr, store.ErrNotFound) {
				return nil, ErrIssueNotFound
			}
			return nil, s.storage("issues.get", getErr)
		}
		return nil, ErrAlreadyUpvoted
	}
	if err != nil {
		return nil, s.storage("issues.appendUpvote", err)
	}

	return &UpvoteResult{
		UpvoteCount: issue.Upvotes.Count,
		UpvotedAt:   at,
		CanUndo:     true,
	}, nil
}

// RemoveUpvote retracts userID's upvote if, and only if, it was cast within
// the undo window. The window is checked against the stored entry timestamp
// at the moment of the atomic removal, never against a stale read.
func (s *UpvoteService) RemoveUpvote(ctx context.Context, issueID, userID string) (int64, error) {
	issueOID, userOID, err := parsePair(issueID, userID)
	if err != nil {
		return 0, err
	}

	at := s.now().UTC()
	cutoff := at.Add(-UndoWindow)

	issue, err := s.issues.RemoveUpvote(ctx, issueOID, userOID, cutoff, at)
	if errors.Is(err, store.ErrNoMatch) {
		current, getErr := s.issues.Get(ctx, issueOID)
		if getErr != nil {
			if errors.Is(getErr, store.ErrNotFound) {
				return 0, ErrIssueNotFound
			}
			return 0, s.storage("issues.get", getErr)
		}
		if entry, ok := current.HasUpvote(userOID); ok && entry.UpvotedAt.Before(cutoff) {
			return 0, ErrUndoWindowExpired
		}
		return 0, ErrNotUpvoted
	}
	if err != nil {
		return 0, s.storage("issues.removeUpvote", err)
	}

	return issue.Upvotes.Count, nil
}

func (s *UpvoteService) storage(op string, err error) error {
	s.logger.Error("document store operation failed", "op", op, "error", err)
	return ErrStorageUnavailable
}

func parsePair(issueID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	issueOID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrInvalidID
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrInvalidID
	}
	return issueOID, userOID, nil
}
