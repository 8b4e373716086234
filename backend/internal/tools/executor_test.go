package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/backend/internal/adapter"
	"shiftbot/backend/internal/knowledge"
	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/sheets"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/tracking"
	"shiftbot/backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

type fakeSheetFetcher struct {
	result *sheets.FetchResult
	err    error
}

func (f *fakeSheetFetcher) FetchEmployeeSheet(ctx context.Context, employee, requester, worksheetName string) (*sheets.FetchResult, error) {
	return f.result, f.err
}

type fakeReminderStore struct {
	created   []*store.Reminder
	reminders []store.Reminder
	cancelErr error
}

func (f *fakeReminderStore) CreateReminder(ctx context.Context, r *store.Reminder) (int64, error) {
	f.created = append(f.created, r)
	return int64(len(f.created)), nil
}

func (f *fakeReminderStore) UserReminders(ctx context.Context, username string, includePast bool) ([]store.Reminder, error) {
	return f.reminders, nil
}

func (f *fakeReminderStore) CancelReminder(ctx context.Context, id int64, username string) error {
	return f.cancelErr
}

type fakeKnowledge struct {
	results []knowledge.SearchResult
}

func (f *fakeKnowledge) Search(ctx context.Context, query string, limit int) ([]knowledge.SearchResult, error) {
	return f.results, nil
}

func testDirectory() *permissions.Directory {
	return &permissions.Directory{
		Admins:        []string{"boss"},
		FriendlyNames: map[string]string{"mitchell": "darcmeho"},
		DiscordIDs:    map[string]string{"darcmeho": "111"},
		Sheets:        map[string]string{"darcmeho": "sheet-1"},
	}
}

func newTestExecutor(sf SheetFetcher, rs ReminderStore, ks KnowledgeSearcher) *Executor {
	e := NewExecutor(sf, rs, ks, testDirectory())
	// Tuesday, 16 Dec 2025, 12:30 local time.
	ref := time.Date(2025, time.December, 16, 12, 30, 0, 0, time.Local)
	e.now = func() time.Time { return ref }
	return e
}

func execCtx() *ExecutionContext {
	return &ExecutionContext{
		UserID:    "500",
		Username:  "boss",
		ChannelID: "chan-1",
		GuildID:   "guild-1",
	}
}

func call(name string, args map[string]interface{}) adapter.ToolCall {
	return adapter.ToolCall{ID: "call-1", Name: name, Arguments: args}
}

func TestExecute_UnknownTool(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call("no_such_tool", nil))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown tool")
}

func TestFetchEmployeeSheet_UnknownName(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolFetchEmployeeSheet,
		map[string]interface{}{"employee_name": "zorro"}))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "I don't recognize 'zorro'")
	assert.Contains(t, result.Message, "mitchell")
}

func TestFetchEmployeeSheet_MeForNonEmployee(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolFetchEmployeeSheet,
		map[string]interface{}{"employee_name": "me"}))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not an employee")
}

func TestFetchEmployeeSheet_WorksheetListing(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{
		result: &sheets.FetchResult{Worksheets: []string{"Tracking", "Notes"}},
	}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolFetchEmployeeSheet,
		map[string]interface{}{"employee_name": "mitchell"}))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "2 worksheets")
	assert.Contains(t, result.Message, "Tracking")
	assert.Contains(t, result.Message, "Which worksheet would you like to see?")
}

func TestFetchEmployeeSheet_TrackingIncludesGuide(t *testing.T) {
	row := tracking.NewRow()
	row.Set("Sportsbook", "Fanduel")
	row.Set("David", "verify")

	e := newTestExecutor(&fakeSheetFetcher{
		result: &sheets.FetchResult{
			WorksheetName: sheets.TrackingWorksheet,
			Snapshot:      tracking.Snapshot{row},
		},
	}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolFetchEmployeeSheet,
		map[string]interface{}{"employee_name": "mitchell", "worksheet_name": "Tracking"}))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "SHEET GUIDE:")
	assert.Contains(t, result.Message, "Row 1: Sportsbook: Fanduel | David: verify")
}

func TestCreateReminder_Success(t *testing.T) {
	rs := &fakeReminderStore{}
	e := newTestExecutor(&fakeSheetFetcher{}, rs, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{
			"reminder_text":   "check the Fanduel deposit",
			"time_expression": "in 2 hours",
		}))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "I'll remind you today at 2:30 PM")

	require.Len(t, rs.created, 1)
	created := rs.created[0]
	assert.Equal(t, "boss", created.CreatorUsername)
	assert.Equal(t, "boss", created.TargetUsername)
	assert.Equal(t, "500", created.TargetUserID)
	assert.Equal(t, 14, created.Time.Hour())
}

func TestCreateReminder_ForEmployee(t *testing.T) {
	rs := &fakeReminderStore{}
	e := newTestExecutor(&fakeSheetFetcher{}, rs, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{
			"target_name":     "mitchell",
			"reminder_text":   "finish verification",
			"time_expression": "tomorrow at 9am",
		}))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "I'll remind Mitchell tomorrow at 9:00 AM")

	require.Len(t, rs.created, 1)
	assert.Equal(t, "darcmeho", rs.created[0].TargetUsername)
	assert.Equal(t, "111", rs.created[0].TargetUserID)
}

func TestCreateReminder_UnparseableTime(t *testing.T) {
	rs := &fakeReminderStore{}
	e := newTestExecutor(&fakeSheetFetcher{}, rs, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{
			"reminder_text":   "something",
			"time_expression": "whenever you feel like it",
		}))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "I couldn't understand the time")
	assert.Empty(t, rs.created)
}

func TestCreateReminder_PastTimeRejected(t *testing.T) {
	rs := &fakeReminderStore{}
	e := newTestExecutor(&fakeSheetFetcher{}, rs, nil)

	// "in 0 minutes" parses to exactly now, which is not in the future.
	result := e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{
			"reminder_text":   "something",
			"time_expression": "in 0 minutes",
		}))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "That time is in the past")
	assert.Empty(t, rs.created)
}

func TestCreateReminder_MissingFields(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{"time_expression": "tomorrow"}))
	assert.Contains(t, result.Error, "reminder_text is required")

	result = e.Execute(context.Background(), execCtx(), call(ToolCreateReminder,
		map[string]interface{}{"reminder_text": "x"}))
	assert.Contains(t, result.Error, "time_expression is required")
}

func TestListReminders(t *testing.T) {
	rs := &fakeReminderStore{reminders: []store.Reminder{
		{ID: 7, TargetUsername: "boss", Text: "own task", Time: time.Date(2025, 12, 17, 9, 0, 0, 0, time.Local)},
		{ID: 8, TargetUsername: "darcmeho", Text: "their task", Time: time.Date(2025, 12, 18, 9, 0, 0, 0, time.Local)},
	}}
	e := newTestExecutor(&fakeSheetFetcher{}, rs, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolListReminders, nil))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "2 pending reminder(s)")
	assert.Contains(t, result.Message, "(ID #7)")
	assert.Contains(t, result.Message, "Remind Mitchell: their task")
}

func TestListReminders_Empty(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolListReminders, nil))
	require.True(t, result.Success)
	assert.Equal(t, "You don't have any pending reminders.", result.Message)
}

func TestCancelReminder(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)

	result := e.Execute(context.Background(), execCtx(), call(ToolCancelReminder,
		map[string]interface{}{"reminder_id": float64(12)}))
	require.True(t, result.Success)
	assert.Equal(t, "✅ Reminder cancelled", result.Message)

	result = e.Execute(context.Background(), execCtx(), call(ToolCancelReminder, nil))
	assert.Contains(t, result.Error, "reminder_id is required")
}

func TestSearchKnowledge(t *testing.T) {
	ks := &fakeKnowledge{results: []knowledge.SearchResult{
		{DocumentName: "deposit-sop", Content: "Always confirm the amount.", Similarity: 0.91},
	}}
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, ks)

	result := e.Execute(context.Background(), execCtx(), call(ToolSearchKnowledge,
		map[string]interface{}{"query": "deposit procedure"}))

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "deposit-sop")
	assert.Contains(t, result.Message, "91% match")
}

func TestSearchKnowledge_Unavailable(t *testing.T) {
	e := newTestExecutor(&fakeSheetFetcher{}, &fakeReminderStore{}, nil)
	assert.False(t, e.HasKnowledgeBase())

	result := e.Execute(context.Background(), execCtx(), call(ToolSearchKnowledge,
		map[string]interface{}{"query": "anything"}))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not available")
}
