package tools

import (
	"context"
	"fmt"
	"strings"

	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/timeparse"
)

func (e *Executor) executeCreateReminder(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	targetName := strings.TrimSpace(stringArg(args, "target_name"))
	reminderText := strings.TrimSpace(stringArg(args, "reminder_text"))
	timeExpression := strings.TrimSpace(stringArg(args, "time_expression"))

	if reminderText == "" {
		return &ToolResult{Success: false, Error: "Error: reminder_text is required"}
	}
	if timeExpression == "" {
		return &ToolResult{Success: false, Error: "Error: time_expression is required"}
	}

	now := e.now()
	reminderTime, ok := timeparse.Parse(timeExpression, now)
	if !ok {
		return &ToolResult{
			Success: false,
			Message: fmt.Sprintf("I couldn't understand the time '%s'. Could you clarify? For example: 'tomorrow', 'in 2 hours', 'Monday at 3pm', or 'next week'.", timeExpression),
		}
	}

	var targetUsername, targetUserID string
	lower := strings.ToLower(targetName)
	if targetName == "" || lower == "me" || lower == "myself" {
		targetUsername = execCtx.Username
		targetUserID = execCtx.UserID
	} else {
		targetUsername = e.dir.ResolveEmployeeName(targetName)
		if targetUsername == "" {
			return &ToolResult{
				Success: false,
				Message: fmt.Sprintf("I don't recognize '%s'. Available employees: %s",
					targetName, strings.Join(e.dir.EmployeeNames(), ", ")),
			}
		}
		targetUserID = e.dir.DiscordID(targetUsername)
	}

	if !reminderTime.After(now) {
		return &ToolResult{
			Success: false,
			Message: "That time is in the past. When should I actually remind you?",
		}
	}

	_, err := e.reminders.CreateReminder(ctx, &store.Reminder{
		CreatorUserID:   execCtx.UserID,
		CreatorUsername: execCtx.Username,
		TargetUserID:    targetUserID,
		TargetUsername:  targetUsername,
		Text:            reminderText,
		Time:            reminderTime,
		ChannelID:       execCtx.ChannelID,
		GuildID:         execCtx.GuildID,
	})
	if err != nil {
		return &ToolResult{Success: false, Error: "Error creating reminder: " + err.Error()}
	}

	formattedTime := timeparse.Format(reminderTime, now)
	if targetUsername == execCtx.Username {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("✅ I'll remind you %s", formattedTime),
		}
	}
	return &ToolResult{
		Success: true,
		Message: fmt.Sprintf("✅ I'll remind %s %s", e.displayName(targetUsername), formattedTime),
	}
}

func (e *Executor) executeListReminders(ctx context.Context, execCtx *ExecutionContext) *ToolResult {
	reminders, err := e.reminders.UserReminders(ctx, execCtx.Username, false)
	if err != nil {
		return &ToolResult{Success: false, Error: "Error fetching reminders: " + err.Error()}
	}

	if len(reminders) == 0 {
		return &ToolResult{Success: true, Message: "You don't have any pending reminders."}
	}

	now := e.now()
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d pending reminder(s):\n\n", len(reminders))
	for i, r := range reminders {
		formattedTime := timeparse.Format(r.Time, now)
		if r.TargetUsername == execCtx.Username {
			fmt.Fprintf(&b, "%d. (ID #%d) [%s] %s\n", i+1, r.ID, formattedTime, r.Text)
		} else {
			fmt.Fprintf(&b, "%d. (ID #%d) [%s] Remind %s: %s\n",
				i+1, r.ID, formattedTime, e.displayName(r.TargetUsername), r.Text)
		}
	}
	return &ToolResult{Success: true, Message: b.String()}
}

func (e *Executor) executeCancelReminder(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	reminderID, ok := intArg(args, "reminder_id")
	if !ok {
		return &ToolResult{Success: false, Error: "Error: reminder_id is required"}
	}

	if err := e.reminders.CancelReminder(ctx, reminderID, execCtx.Username); err != nil {
		return &ToolResult{
			Success: false,
			Message: fmt.Sprintf("Could not cancel reminder #%d. Either it doesn't exist or you don't have permission.", reminderID),
		}
	}
	return &ToolResult{Success: true, Message: "✅ Reminder cancelled"}
}

// displayName prefers the title-cased friendly name over the raw
// Discord username.
func (e *Executor) displayName(username string) string {
	friendly := e.dir.FriendlyName(username)
	if friendly == "" {
		return username
	}
	return strings.ToUpper(friendly[:1]) + friendly[1:]
}
