package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voice-be/models"
	"voice-be/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminCommentPrefix marks a comment appended during an administrative
// status update, so clients can render it apart from citizen comments.
const AdminCommentPrefix = "[ADMIN UPDATE] "

// AdminService carries the administrative triage surface: region-scoped
// listing, status transitions and deletions (both audited), and the
// dashboard aggregates.
type AdminService struct {
	issues IssueStore
	admins AdminStore
	users  UserStore
	audit  *AuditService
	logger *slog.Logger
	now    func() time.Time
}

func NewAdminService(issues IssueStore, admins AdminStore, users UserStore, audit *AuditService, logger *slog.Logger) *AdminService {
	return &AdminService{
		issues: issues,
		admins: admins,
		users:  users,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// ResolveAdmin loads the acting admin's account. Inactive accounts are
// rejected here so no downstream operation ever sees one.
func (s *AdminService) ResolveAdmin(ctx context.Context, adminID string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, ErrInvalidID
	}
	admin, err := s.admins.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, s.storage("admins.get", err)
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}
	return admin, nil
}

// ListIssuesQuery are client-supplied listing filters. The region scope is
// not part of this struct: it comes from the acting admin and is applied
// before anything here.
type ListIssuesQuery struct {
	Status    string
	Authority string
	Search    string
	Sort      string
	Order     string
	Page      int64
	Limit     int64
}

// ListIssues returns the issues the admin may see, region scope first.
func (s *AdminService) ListIssues(ctx context.Context, admin *models.Admin, q ListIssuesQuery) ([]models.Issue, *Pagination, error) {
	if err := CanAccess(admin, "", CapNone); err != nil {
		return nil, nil, err
	}

	filter := RegionFilter(admin)
	if q.Status != "" && q.Status != "all" {
		if !models.ValidIssueStatus(q.Status) {
			return nil, nil, ErrInvalidStatus
		}
		filter["status"] = q.Status
	}
	if q.Authority != "" && q.Authority != "all" {
		filter["concernAuthority"] = q.Authority
	}
	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q.Search, "$options": "i"}},
			{"description": bson.M{"$regex": q.Search, "$options": "i"}},
			{"colony": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	sortField := q.Sort
	switch sortField {
	case "createdAt", "updatedAt", "status", "priority", "upvotes.count":
	default:
		sortField = "createdAt"
	}
	order := -1
	if q.Order == "asc" {
		order = 1
	}

	page, limit := normalizePage(q.Page, q.Limit)

	total, err := s.issues.Count(ctx, filter)
	if err != nil {
		return nil, nil, s.storage("issues.count", err)
	}

	issues, err := s.issues.List(ctx, filter, bson.D{{Key: sortField, Value: order}}, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, s.storage("issues.list", err)
	}
	for i := range issues {
		issues[i].NormalizeUpvotes()
	}

	return issues, newPagination(page, limit, total, int64(len(issues))), nil
}

// UpdateStatus applies a status transition on behalf of admin. Any status to
// any status is accepted. On success the new status is durably set, an
// optional admin comment is appended in the same atomic update, and exactly
// one status_change audit record is written.
func (s *AdminService) UpdateStatus(ctx context.Context, admin *models.Admin, issueID, status, comment string) (*models.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if !models.ValidIssueStatus(status) {
		return nil, ErrInvalidStatus
	}

	issue, err := s.issues.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, s.storage("issues.get", err)
	}

	if err := CanAccess(admin, issue.Colony, CapUpdateStatus); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	var adminComment *models.Comment
	if comment != "" {
		adminComment = &models.Comment{
			User:      admin.ID,
			Text:      AdminCommentPrefix + comment,
			CreatedAt: at,
		}
	}

	// The before-image carries the authoritative old status for the audit
	// record, even if a concurrent admin changed it after our read above.
	before, err := s.issues.UpdateStatus(ctx, oid, models.IssueStatus(status), adminComment, at)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, s.storage("issues.updateStatus", err)
	}

	s.audit.Append(ctx, models.AdminAction{
		Admin:      admin.ID,
		Issue:      oid,
		ActionType: models.ActionStatusChange,
		OldStatus:  string(before.Status),
		NewStatus:  status,
		Comment:    comment,
	})

	updated := *before
	updated.Status = models.IssueStatus(status)
	updated.UpdatedAt = at
	if adminComment != nil {
		updated.Comments = append(updated.Comments, *adminComment)
	}
	updated.NormalizeUpvotes()
	return &updated, nil
}

// DeleteIssue physically removes an issue. Requires the canDeleteIssues flag
// on top of the role/region policy; one issue_deleted audit record carries
// the reason.
func (s *AdminService) DeleteIssue(ctx context.Context, admin *models.Admin, issueID, reason string) error {
	oid, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return ErrInvalidID
	}

	issue, err := s.issues.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return s.storage("issues.get", err)
	}

	if err := CanAccess(admin, issue.Colony, CapDeleteIssues); err != nil {
		return err
	}

	if err := s.issues.Delete(ctx, oid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIssueNotFound
		}
		return s.storage("issues.delete", err)
	}

	if reason == "" {
		reason = "Issue deleted by admin"
	}
	s.audit.Append(ctx, models.AdminAction{
		Admin:      admin.ID,
		Issue:      oid,
		ActionType: models.ActionIssueDeleted,
		Comment:    reason,
	})
	return nil
}

// Dashboard are the region-scoped aggregates for the admin landing page.
type Dashboard struct {
	TotalIssues      int64          `json:"totalIssues"`
	OpenIssues       int64          `json:"openIssues"`
	InProgressIssues int64          `json:"inProgressIssues"`
	ResolvedIssues   int64          `json:"resolvedIssues"`
	TotalUsers       int64          `json:"totalUsers"`
	RecentIssues     []models.Issue `json:"recentIssues"`
	TopAuthorities   []bson.M       `json:"topAuthorities"`
}

// LoadDashboard computes the dashboard. Requires canViewAnalytics.
func (s *AdminService) LoadDashboard(ctx context.Context, admin *models.Admin) (*Dashboard, error) {
	if err := CanAccess(admin, "", CapViewAnalytics); err != nil {
		return nil, err
	}

	scope := RegionFilter(admin)
	d := &Dashboard{}

	var err error
	if d.TotalIssues, err = s.issues.Count(ctx, scope); err != nil {
		return nil, s.storage("issues.count", err)
	}
	for status, dest := range map[models.IssueStatus]*int64{
		models.StatusOpen:       &d.OpenIssues,
		models.StatusInProgress: &d.InProgressIssues,
		models.StatusResolved:   &d.ResolvedIssues,
	} {
		filter := RegionFilter(admin)
		filter["status"] = status
		if *dest, err = s.issues.Count(ctx, filter); err != nil {
			return nil, s.storage("issues.count", err)
		}
	}

	if d.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, s.storage("users.count", err)
	}

	recent, err := s.issues.List(ctx, scope, bson.D{{Key: "createdAt", Value: -1}}, 0, 5)
	if err != nil {
		return nil, s.storage("issues.list", err)
	}
	for i := range recent {
		recent[i].NormalizeUpvotes()
	}
	d.RecentIssues = recent

	d.TopAuthorities, err = s.issues.Aggregate(ctx, []bson.M{
		{"$match": scope},
		{"$group": bson.M{"_id": "$concernAuthority", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": 5},
	})
	if err != nil {
		return nil, s.storage("issues.aggregate", err)
	}

	return d, nil
}

func (s *AdminService) storage(op string, err error) error {
	s.logger.Error("document store operation failed", "op", op, "error", err)
	return ErrStorageUnavailable
}
