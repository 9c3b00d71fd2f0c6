package services

import (
	"context"
	"testing"
	"time"

	"voice-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seededAudit(t *testing.T) (*AuditService, *fakeActionStore, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()

	actions := &fakeActionStore{}
	svc := NewAuditService(actions, testLogger())

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	adminID := primitive.NewObjectID()
	issueID := primitive.NewObjectID()
	ctx := context.Background()

	svc.Append(ctx, models.AdminAction{
		Admin: adminID, Issue: issueID,
		ActionType: models.ActionStatusChange,
		OldStatus:  "open", NewStatus: "in-progress",
	})
	svc.Append(ctx, models.AdminAction{
		Admin: adminID, Issue: issueID,
		ActionType: models.ActionStatusChange,
		OldStatus:  "in-progress", NewStatus: "resolved",
	})
	svc.Append(ctx, models.AdminAction{
		Admin: primitive.NewObjectID(), Issue: primitive.NewObjectID(),
		ActionType: models.ActionIssueDeleted,
		Comment:    "spam",
	})

	return svc, actions, adminID, issueID
}

func TestAuditAppendStampsCreatedAt(t *testing.T) {
	_, actions, _, _ := seededAudit(t)

	require.Len(t, actions.records, 3)
	for _, record := range actions.records {
		assert.False(t, record.CreatedAt.IsZero())
	}
	// The records reflect commit order.
	assert.True(t, actions.records[0].CreatedAt.Before(actions.records[1].CreatedAt))
}

func TestAuditListNewestFirst(t *testing.T) {
	svc, _, _, _ := seededAudit(t)

	records, pagination, err := svc.List(context.Background(), ActionQuery{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), pagination.TotalCount)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.True(t, records[1].CreatedAt.After(records[2].CreatedAt))
}

func TestAuditListFilters(t *testing.T) {
	svc, _, adminID, issueID := seededAudit(t)
	ctx := context.Background()

	records, _, err := svc.List(ctx, ActionQuery{IssueID: issueID.Hex()})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, _, err = svc.List(ctx, ActionQuery{AdminID: adminID.Hex()})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, _, err = svc.List(ctx, ActionQuery{ActionType: "issue_deleted"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "spam", records[0].Comment)
}

func TestAuditListRejectsBadFilters(t *testing.T) {
	svc, _, _, _ := seededAudit(t)
	ctx := context.Background()

	_, _, err := svc.List(ctx, ActionQuery{IssueID: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, _, err = svc.List(ctx, ActionQuery{ActionType: "made_up_action"})
	assert.ErrorIs(t, err, ErrInvalidID)
}
