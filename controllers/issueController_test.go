package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"voice-be/controllers"
	"voice-be/middlewares"
	"voice-be/models"
	"voice-be/services"
	"voice-be/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubIssueStore holds a single issue and mirrors the conditional-update
// semantics of the Mongo store for the ledger operations the upvote
// endpoints exercise.
type stubIssueStore struct {
	mu    sync.Mutex
	issue *models.Issue
}

func (s *stubIssueStore) Insert(context.Context, *models.Issue) error { return nil }

func (s *stubIssueStore) Get(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.issue == nil || s.issue.ID != id {
		return nil, store.ErrNotFound
	}
	cp := *s.issue
	cp.Upvotes.Users = append([]models.UpvoteEntry(nil), s.issue.Upvotes.Users...)
	return &cp, nil
}

func (s *stubIssueStore) AppendUpvote(_ context.Context, issueID, userID primitive.ObjectID, at time.Time) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.issue == nil || s.issue.ID != issueID {
		return nil, store.ErrNoMatch
	}
	if _, ok := s.issue.HasUpvote(userID); ok {
		return nil, store.ErrNoMatch
	}
	s.issue.Upvotes.Users = append(s.issue.Upvotes.Users, models.UpvoteEntry{UserID: userID, UpvotedAt: at})
	s.issue.Upvotes.Count++
	cp := *s.issue
	return &cp, nil
}

func (s *stubIssueStore) RemoveUpvote(_ context.Context, issueID, userID primitive.ObjectID, cutoff, _ time.Time) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.issue == nil || s.issue.ID != issueID {
		return nil, store.ErrNoMatch
	}
	entry, ok := s.issue.HasUpvote(userID)
	if !ok || entry.UpvotedAt.Before(cutoff) {
		return nil, store.ErrNoMatch
	}
	users := s.issue.Upvotes.Users[:0]
	for _, e := range s.issue.Upvotes.Users {
		if e.UserID != userID {
			users = append(users, e)
		}
	}
	s.issue.Upvotes.Users = users
	s.issue.Upvotes.Count--
	cp := *s.issue
	return &cp, nil
}

func (s *stubIssueStore) HealUpvotes(context.Context, primitive.ObjectID, models.Upvotes) error {
	return nil
}

func (s *stubIssueStore) UpdateStatus(context.Context, primitive.ObjectID, models.IssueStatus, *models.Comment, time.Time) (*models.Issue, error) {
	return nil, store.ErrNotFound
}

func (s *stubIssueStore) Delete(context.Context, primitive.ObjectID) error { return store.ErrNotFound }

func (s *stubIssueStore) Count(context.Context, bson.M) (int64, error) { return 0, nil }

func (s *stubIssueStore) List(context.Context, bson.M, bson.D, int64, int64) ([]models.Issue, error) {
	return nil, nil
}

func (s *stubIssueStore) Aggregate(context.Context, []bson.M) ([]bson.M, error) { return nil, nil }

type stubUserStore struct {
	id primitive.ObjectID
}

func (s *stubUserStore) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	return id == s.id, nil
}

func (s *stubUserStore) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if id != s.id {
		return nil, store.ErrNotFound
	}
	return &models.User{ID: id}, nil
}

func (s *stubUserStore) Count(context.Context) (int64, error) { return 1, nil }

type upvoteHarness struct {
	router *gin.Engine
	issues *stubIssueStore
	issue  models.Issue
	userID primitive.ObjectID
}

func newUpvoteHarness(t *testing.T) *upvoteHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID()
	issue := models.Issue{
		ID:      primitive.NewObjectID(),
		Title:   "Streetlight out",
		Status:  models.StatusOpen,
		Colony:  "Sector5",
		Upvotes: models.Upvotes{Count: 0, Users: []models.UpvoteEntry{}},
	}

	issues := &stubIssueStore{issue: &issue}
	users := &stubUserStore{id: userID}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issueService := services.NewIssueService(issues, users, logger)
	upvoteService := services.NewUpvoteService(issues, users, logger)
	controller := controllers.NewIssueController(issueService, upvoteService)

	router := gin.New()
	// Stands in for the JWT middleware.
	authed := func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, userID.Hex())
		c.Next()
	}
	router.POST("/api/issues/:id/upvote", authed, controller.Upvote)
	router.POST("/api/issues/:id/remove-upvote", authed, controller.RemoveUpvote)
	router.GET("/api/issues/:id", controller.Get)

	return &upvoteHarness{router: router, issues: issues, issue: issue, userID: userID}
}

func (h *upvoteHarness) post(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestUpvoteEndpoint(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, body := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/upvote")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["upvoteCount"])
	assert.Equal(t, true, body["canUndo"])
	assert.NotEmpty(t, body["upvotedAt"])
}

func TestUpvoteEndpointDuplicate(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, _ := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/upvote")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/upvote")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already_upvoted", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestUpvoteEndpointUnknownIssue(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, body := h.post(t, "/api/issues/"+primitive.NewObjectID().Hex()+"/upvote")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "issue_not_found", body["code"])
}

func TestUpvoteEndpointMalformedID(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, body := h.post(t, "/api/issues/zzz/upvote")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", body["code"])
}

func TestRemoveUpvoteEndpointWithinWindow(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, _ := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/upvote")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/remove-upvote")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["upvoteCount"])
}

func TestRemoveUpvoteEndpointExpiredWindow(t *testing.T) {
	h := newUpvoteHarness(t)

	// An upvote cast two minutes ago is past the undo window.
	h.issues.mu.Lock()
	h.issues.issue.Upvotes.Users = []models.UpvoteEntry{
		{UserID: h.userID, UpvotedAt: time.Now().UTC().Add(-2 * time.Minute)},
	}
	h.issues.issue.Upvotes.Count = 1
	h.issues.mu.Unlock()

	rec, body := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/remove-upvote")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "undo_window_expired", body["code"])
}

func TestRemoveUpvoteEndpointNotUpvoted(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, body := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/remove-upvote")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_upvoted", body["code"])
}

func TestGetIssueReportsCallerUpvote(t *testing.T) {
	h := newUpvoteHarness(t)

	rec, _ := h.post(t, "/api/issues/"+h.issue.ID.Hex()+"/upvote")
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/issues/"+h.issue.ID.Hex(), nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	issue := body["issue"].(map[string]any)
	upvotes := issue["upvotes"].(map[string]any)
	assert.Equal(t, float64(1), upvotes["count"])
}
