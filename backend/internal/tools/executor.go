package tools

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shiftbot/backend/internal/adapter"
	"shiftbot/backend/internal/knowledge"
	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/sheets"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/pkg/logger"
)

// ExecutionContext holds the requester's identity for tool execution.
type ExecutionContext struct {
	UserID    string
	Username  string
	ChannelID string
	GuildID   string
}

// ToolResult represents the result of a tool execution. Message is the
// text handed back to the model.
type ToolResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Content returns the text to feed back into the conversation.
func (r *ToolResult) Content() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// SheetFetcher fetches permission-checked sheet data.
type SheetFetcher interface {
	FetchEmployeeSheet(ctx context.Context, employee, requester, worksheetName string) (*sheets.FetchResult, error)
}

// ReminderStore persists reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r *store.Reminder) (int64, error)
	UserReminders(ctx context.Context, username string, includePast bool) ([]store.Reminder, error)
	CancelReminder(ctx context.Context, id int64, username string) error
}

// KnowledgeSearcher searches the SOP knowledge base.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]knowledge.SearchResult, error)
}

// Executor handles tool execution.
type Executor struct {
	sheets    SheetFetcher
	reminders ReminderStore
	knowledge KnowledgeSearcher
	dir       *permissions.Directory
	now       func() time.Time
	logger    *zap.Logger
}

// NewExecutor creates a tool executor. knowledgeSearcher may be nil when
// the knowledge base is not configured.
func NewExecutor(sheetFetcher SheetFetcher, reminderStore ReminderStore, knowledgeSearcher KnowledgeSearcher, dir *permissions.Directory) *Executor {
	return &Executor{
		sheets:    sheetFetcher,
		reminders: reminderStore,
		knowledge: knowledgeSearcher,
		dir:       dir,
		now:       time.Now,
		logger:    logger.Get(),
	}
}

// HasKnowledgeBase reports whether knowledge tools should be offered.
func (e *Executor) HasKnowledgeBase() bool {
	return e.knowledge != nil
}

// Execute routes a tool call to its implementation.
func (e *Executor) Execute(ctx context.Context, execCtx *ExecutionContext, toolCall adapter.ToolCall) *ToolResult {
	e.logger.Debug("Executing tool",
		zap.String("tool", toolCall.Name),
		zap.String("user", execCtx.Username),
	)

	switch toolCall.Name {
	// Sheet Tools
	case ToolFetchEmployeeSheet:
		return e.executeFetchEmployeeSheet(ctx, execCtx, toolCall.Arguments)

	// Reminder Tools
	case ToolCreateReminder:
		return e.executeCreateReminder(ctx, execCtx, toolCall.Arguments)
	case ToolListReminders:
		return e.executeListReminders(ctx, execCtx)
	case ToolCancelReminder:
		return e.executeCancelReminder(ctx, execCtx, toolCall.Arguments)

	// Knowledge Tools
	case ToolSearchKnowledge:
		return e.executeSearchKnowledge(ctx, toolCall.Arguments)

	default:
		return &ToolResult{
			Success: false,
			Error:   "Unknown tool: " + toolCall.Name,
		}
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
