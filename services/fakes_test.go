package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"voice-be/models"
	"voice-be/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeIssueStore is an in-memory IssueStore that honors the same conditional
// semantics as the Mongo implementation: each mutation checks its
// precondition and applies under one lock, so concurrent callers observe
// atomic behavior.
type fakeIssueStore struct {
	mu     sync.Mutex
	issues map[primitive.ObjectID]*models.Issue
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{issues: make(map[primitive.ObjectID]*models.Issue)}
}

func copyIssue(issue *models.Issue) *models.Issue {
	cp := *issue
	cp.Upvotes.Users = append([]models.UpvoteEntry(nil), issue.Upvotes.Users...)
	cp.Comments = append([]models.Comment(nil), issue.Comments...)
	return &cp
}

func (f *fakeIssueStore) Insert(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[issue.ID] = copyIssue(issue)
	return nil
}

func (f *fakeIssueStore) Get(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyIssue(issue), nil
}

func (f *fakeIssueStore) AppendUpvote(_ context.Context, issueID, userID primitive.ObjectID, at time.Time) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok {
		return nil, store.ErrNoMatch
	}
	if _, upvoted := issue.HasUpvote(userID); upvoted {
		return nil, store.ErrNoMatch
	}
	issue.Upvotes.Users = append(issue.Upvotes.Users, models.UpvoteEntry{UserID: userID, UpvotedAt: at})
	issue.Upvotes.Count++
	issue.UpdatedAt = at
	return copyIssue(issue), nil
}

func (f *fakeIssueStore) RemoveUpvote(_ context.Context, issueID, userID primitive.ObjectID, cutoff, at time.Time) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok {
		return nil, store.ErrNoMatch
	}
	entry, upvoted := issue.HasUpvote(userID)
	if !upvoted || entry.UpvotedAt.Before(cutoff) {
		return nil, store.ErrNoMatch
	}
	users := issue.Upvotes.Users[:0]
	for _, e := range issue.Upvotes.Users {
		if e.UserID != userID {
			users = append(users, e)
		}
	}
	issue.Upvotes.Users = users
	issue.Upvotes.Count--
	issue.UpdatedAt = at
	return copyIssue(issue), nil
}

func (f *fakeIssueStore) HealUpvotes(_ context.Context, issueID primitive.ObjectID, upvotes models.Upvotes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if issue, ok := f.issues[issueID]; ok {
		issue.Upvotes = upvotes
	}
	return nil
}

func (f *fakeIssueStore) UpdateStatus(_ context.Context, issueID primitive.ObjectID, status models.IssueStatus, comment *models.Comment, at time.Time) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok {
		return nil, store.ErrNotFound
	}
	before := copyIssue(issue)
	issue.Status = status
	issue.UpdatedAt = at
	if comment != nil {
		issue.Comments = append(issue.Comments, *comment)
	}
	return before, nil
}

func (f *fakeIssueStore) Delete(_ context.Context, issueID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[issueID]; !ok {
		return store.ErrNotFound
	}
	delete(f.issues, issueID)
	return nil
}

func (f *fakeIssueStore) matches(issue *models.Issue, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "colony":
			if issue.Colony != want {
				return false
			}
		case "status":
			switch v := want.(type) {
			case string:
				if string(issue.Status) != v {
					return false
				}
			case models.IssueStatus:
				if issue.Status != v {
					return false
				}
			}
		}
	}
	return true
}

func (f *fakeIssueStore) Count(_ context.Context, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, issue := range f.issues {
		if f.matches(issue, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeIssueStore) List(_ context.Context, filter bson.M, _ bson.D, skip, limit int64) ([]models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Issue, 0)
	for _, issue := range f.issues {
		if f.matches(issue, filter) {
			out = append(out, *copyIssue(issue))
		}
	}
	if skip > 0 && skip < int64(len(out)) {
		out = out[skip:]
	} else if skip >= int64(len(out)) {
		out = out[:0]
	}
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeIssueStore) Aggregate(_ context.Context, _ []bson.M) ([]bson.M, error) {
	return []bson.M{}, nil
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) add(id primitive.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = &models.User{ID: id, Name: "user-" + id.Hex()[:6]}
}

func (f *fakeUserStore) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// fakeAdminStore is an in-memory AdminStore.
type fakeAdminStore struct {
	admins map[primitive.ObjectID]*models.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[primitive.ObjectID]*models.Admin)}
}

func (f *fakeAdminStore) Get(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *admin
	return &cp, nil
}

// fakeActionStore is an in-memory append-only ActionStore. insertErr, when
// set, simulates an unavailable audit collection.
type fakeActionStore struct {
	mu        sync.Mutex
	records   []models.AdminAction
	insertErr error
}

func (f *fakeActionStore) Insert(_ context.Context, action *models.AdminAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, *action)
	return nil
}

func (f *fakeActionStore) matches(record models.AdminAction, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "issue":
			if record.Issue != want {
				return false
			}
		case "admin":
			if record.Admin != want {
				return false
			}
		case "actionType":
			if string(record.ActionType) != want {
				return false
			}
		}
	}
	return true
}

func (f *fakeActionStore) List(_ context.Context, filter bson.M, skip, limit int64) ([]models.AdminAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AdminAction, 0)
	// Newest first, matching the Mongo index order.
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.matches(f.records[i], filter) {
			out = append(out, f.records[i])
		}
	}
	if skip > 0 && skip < int64(len(out)) {
		out = out[skip:]
	} else if skip >= int64(len(out)) {
		out = out[:0]
	}
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActionStore) Count(_ context.Context, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, record := range f.records {
		if f.matches(record, filter) {
			n++
		}
	}
	return n, nil
}
