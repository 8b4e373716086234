package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/backend/internal/tracking"
	apperrors "shiftbot/backend/pkg/errors"
	"shiftbot/backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConversationRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveConversation(ctx, "user-1", "chan-1", "hello", "hi there"))
	require.NoError(t, s.SaveConversation(ctx, "user-1", "chan-1", "second", "reply"))
	require.NoError(t, s.SaveConversation(ctx, "user-2", "chan-1", "other user", "reply"))

	history, err := s.ConversationHistory(ctx, "user-1", "chan-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Chronological order, oldest first.
	assert.Equal(t, "hello", history[0].UserMessage)
	assert.Equal(t, "second", history[1].UserMessage)

	count, err := s.ConversationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.ClearConversationHistory(ctx, "user-1", "chan-1"))
	history, err = s.ConversationHistory(ctx, "user-1", "chan-1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestConversationHistoryLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, s.SaveConversation(ctx, "user-1", "chan-1", "msg", "resp"))
	}

	history, err := s.ConversationHistory(ctx, "user-1", "chan-1", 5)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}

func TestReminderLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	due := time.Now().Add(-time.Minute)
	id, err := s.CreateReminder(ctx, &Reminder{
		CreatorUserID:   "100",
		CreatorUsername: "boss",
		TargetUserID:    "200",
		TargetUsername:  "darcmeho",
		Text:            "check the Fanduel deposit",
		Time:            due,
		ChannelID:       "chan-1",
		GuildID:         "guild-1",
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	// Future reminder must not be due yet.
	_, err = s.CreateReminder(ctx, &Reminder{
		CreatorUserID:   "100",
		CreatorUsername: "boss",
		TargetUsername:  "darcmeho",
		Text:            "later",
		Time:            time.Now().Add(time.Hour),
		ChannelID:       "chan-1",
	})
	require.NoError(t, err)

	pending, err := s.DuePendingReminders(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, "check the Fanduel deposit", pending[0].Text)
	assert.Equal(t, ReminderStatusPending, pending[0].Status)

	require.NoError(t, s.MarkReminderSent(ctx, id))

	pending, err = s.DuePendingReminders(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCancelReminder_Permissions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateReminder(ctx, &Reminder{
		CreatorUserID:   "100",
		CreatorUsername: "boss",
		TargetUsername:  "darcmeho",
		Text:            "task",
		Time:            time.Now().Add(time.Hour),
		ChannelID:       "chan-1",
	})
	require.NoError(t, err)

	// A bystander cannot cancel.
	err = s.CancelReminder(ctx, id, "random")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeTool))

	// The target can.
	require.NoError(t, s.CancelReminder(ctx, id, "darcmeho"))

	reminders, err := s.UserReminders(ctx, "darcmeho", true)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, ReminderStatusCancelled, reminders[0].Status)

	// Cancelled reminders drop out of the pending view.
	reminders, err = s.UserReminders(ctx, "darcmeho", false)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestCancelReminder_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.CancelReminder(context.Background(), 9999, "boss")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStore))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	row := tracking.NewRow()
	row.Set("Sportsbook", "Fanduel")
	row.Set("DEPOSIT", "$1000")
	row.Set("David", "verify")
	data := tracking.Snapshot{row}

	require.NoError(t, s.StoreSnapshot(ctx, "darcmeho", "Tracking", data, true, "morning baseline"))

	today := time.Now().UTC()
	snap, err := s.LatestBaseline(ctx, "darcmeho", "Tracking", today)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.IsBaseline)
	assert.Equal(t, "morning baseline", snap.Notes)
	require.Len(t, snap.Data, 1)
	assert.Equal(t, []string{"Sportsbook", "DEPOSIT", "David"}, snap.Data[0].Columns())
	assert.Equal(t, "verify", snap.Data[0].Get("David"))

	exists, err := s.BaselineExists(ctx, "darcmeho", "Tracking", today)
	require.NoError(t, err)
	assert.True(t, exists)

	// Non-baseline snapshots never satisfy the baseline lookup.
	require.NoError(t, s.StoreSnapshot(ctx, "darcmeho", "Tracking", data, false, ""))
	exists, err = s.BaselineExists(ctx, "ignacioz1313", "Tracking", today)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPruneSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.StoreSnapshot(ctx, "darcmeho", "Tracking", nil, false, ""))

	// Everything is fresh; a 30 day window keeps it all.
	deleted, err := s.PruneSnapshots(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// A zero window removes everything.
	deleted, err = s.PruneSnapshots(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
