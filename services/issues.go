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

// IssueService carries the citizen-facing issue surface: reporting, public
// listing, point reads, and the public analytics counters.
type IssueService struct {
	issues IssueStore
	users  UserStore
	logger *slog.Logger
	now    func() time.Time
}

func NewIssueService(issues IssueStore, users UserStore, logger *slog.Logger) *IssueService {
	return &IssueService{
		issues: issues,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// CreateIssueInput is the validated request body for reporting an issue.
type CreateIssueInput struct {
	Title            string
	Description      string
	ConcernAuthority string
	Colony           string
	Pincode          string
	Priority         string
	Images           []string
	Tags             []string
	Coordinates      []float64
}

// Create stores a new issue for the reporter with an empty ledger and
// status open.
func (s *IssueService) Create(ctx context.Context, reporterID string, in CreateIssueInput) (*models.Issue, error) {
	reporter, err := primitive.ObjectIDFromHex(reporterID)
	if err != nil {
		return nil, ErrInvalidID
	}

	priority := models.PriorityLow
	if in.Priority != "" {
		if !models.ValidIssuePriority(in.Priority) {
			return nil, ErrInvalidStatus
		}
		priority = models.IssuePriority(in.Priority)
	}

	coordinates := in.Coordinates
	if len(coordinates) != 2 {
		coordinates = []float64{0, 0}
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	at := s.now().UTC()
	issue := &models.Issue{
		ID:               primitive.NewObjectID(),
		Title:            in.Title,
		Description:      in.Description,
		Status:           models.StatusOpen,
		Priority:         priority,
		ConcernAuthority: in.ConcernAuthority,
		Reporter:         reporter,
		Comments:         []models.Comment{},
		Images:           images,
		Tags:             tags,
		Colony:           in.Colony,
		Pincode:          in.Pincode,
		Location:         models.GeoPoint{Type: "Point", Coordinates: coordinates},
		Upvotes:          models.Upvotes{Count: 0, Users: []models.UpvoteEntry{}},
		Target:           100,
		CreatedAt:        at,
		UpdatedAt:        at,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		return nil, s.storage("issues.insert", err)
	}
	return issue, nil
}

// Get returns one issue. If the cached upvote count disagrees with the
// ledger, the response is served from the recomputed ledger and the stored
// document is healed best-effort; the atomic write path keeps new records
// consistent, so this only ever fires on legacy data.
func (s *IssueService) Get(ctx context.Context, issueID string) (*models.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrInvalidID
	}

	issue, err := s.issues.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, s.storage("issues.get", err)
	}

	if issue.NormalizeUpvotes() {
		if healErr := s.issues.HealUpvotes(ctx, oid, issue.Upvotes); healErr != nil {
			s.logger.Warn("upvote ledger heal failed", "issue", oid.Hex(), "error", healErr)
		}
	}
	return issue, nil
}

// ReporterName resolves the display name of an issue's reporter. Best
// effort: a missing or failed lookup yields an empty name, never an error.
func (s *IssueService) ReporterName(ctx context.Context, issue *models.Issue) string {
	if issue.Reporter.IsZero() {
		return ""
	}
	reporter, err := s.users.Get(ctx, issue.Reporter)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("reporter lookup failed", "issue", issue.ID.Hex(), "error", err)
		}
		return ""
	}
	return reporter.Name
}

// List returns the public issue feed. Sort accepts "recent" (last updated),
// "supported" (most upvoted), or defaults to newest first.
func (s *IssueService) List(ctx context.Context, sortKey string, limit int64) ([]models.Issue, error) {
	var sort bson.D
	switch sortKey {
	case "recent":
		sort = bson.D{{Key: "updatedAt", Value: -1}}
	case "supported":
		sort = bson.D{{Key: "upvotes.count", Value: -1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	if limit < 0 || limit > 100 {
		limit = 0
	}

	issues, err := s.issues.List(ctx, bson.M{}, sort, 0, limit)
	if err != nil {
		return nil, s.storage("issues.list", err)
	}
	for i := range issues {
		issues[i].NormalizeUpvotes()
	}
	return issues, nil
}

// Analytics are the public platform counters.
type Analytics struct {
	TotalIssues    int64 `json:"totalIssues"`
	ResolvedIssues int64 `json:"resolvedIssues"`
	PendingIssues  int64 `json:"pendingIssues"`
	TotalUsers     int64 `json:"totalUsers"`
}

func (s *IssueService) Analytics(ctx context.Context) (*Analytics, error) {
	a := &Analytics{}
	var err error

	if a.TotalIssues, err = s.issues.Count(ctx, bson.M{}); err != nil {
		return nil, s.storage("issues.count", err)
	}
	if a.ResolvedIssues, err = s.issues.Count(ctx, bson.M{"status": models.StatusResolved}); err != nil {
		return nil, s.storage("issues.count", err)
	}
	if a.PendingIssues, err = s.issues.Count(ctx, bson.M{"status": bson.M{"$in": []models.IssueStatus{models.StatusOpen, models.StatusInProgress}}}); err != nil {
		return nil, s.storage("issues.count", err)
	}
	if a.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, s.storage("users.count", err)
	}
	return a, nil
}

func (s *IssueService) storage(op string, err error) error {
	s.logger.Error("document store operation failed", "op", op, "error", err)
	return ErrStorageUnavailable
}
