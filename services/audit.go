package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditService owns the append-only history of administrative mutations.
type AuditService struct {
	actions ActionStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewAuditService(actions ActionStore, logger *slog.Logger) *AuditService {
	return &AuditService{
		actions: actions,
		logger:  logger,
		now:     time.Now,
	}
}

// Append writes one audit record. It is called after the primary mutation has
// been durably applied; a failed write is logged and swallowed rather than
// rolling the mutation back. That eventual-consistency gap is accepted.
func (s *AuditService) Append(ctx context.Context, action models.AdminAction) {
	action.CreatedAt = s.now().UTC()
	if err := s.actions.Insert(ctx, &action); err != nil {
		s.logger.Error("audit record write failed",
			"admin", action.Admin.Hex(),
			"issue", action.Issue.Hex(),
			"actionType", action.ActionType,
			"error", err,
		)
	}
}

// ActionQuery filters the audit listing. All fields are optional.
type ActionQuery struct {
	IssueID    string
	AdminID    string
	ActionType string
	Page       int64
	Limit      int64
}

// List returns audit records newest first, with pagination metadata.
func (s *AuditService) List(ctx context.Context, q ActionQuery) ([]models.AdminAction, *Pagination, error) {
	filter := bson.M{}
	if q.IssueID != "" {
		oid, err := primitive.ObjectIDFromHex(q.IssueID)
		if err != nil {
			return nil, nil, ErrInvalidID
		}
		filter["issue"] = oid
	}
	if q.AdminID != "" {
		oid, err := primitive.ObjectIDFromHex(q.AdminID)
		if err != nil {
			return nil, nil, ErrInvalidID
		}
		filter["admin"] = oid
	}
	if q.ActionType != "" {
		if !models.ValidActionType(q.ActionType) {
			return nil, nil, ErrInvalidID
		}
		filter["actionType"] = q.ActionType
	}

	page, limit := normalizePage(q.Page, q.Limit)

	total, err := s.actions.Count(ctx, filter)
	if err != nil {
		return nil, nil, s.storage("actions.count", err)
	}

	actions, err := s.actions.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, s.storage("actions.list", err)
	}

	return actions, newPagination(page, limit, total, int64(len(actions))), nil
}

func (s *AuditService) storage(op string, err error) error {
	s.logger.Error("document store operation failed", "op", op, "error", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return ErrStorageUnavailable
}
