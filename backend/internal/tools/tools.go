// Package tools defines the functions exposed to the LLM and executes
// its calls against the sheet, reminder and knowledge services.
package tools

import (
	"shiftbot/backend/internal/adapter"
)

// Sheet Tools
const (
	ToolFetchEmployeeSheet = "fetch_employee_sheet"
)

// Reminder Tools
const (
	ToolCreateReminder = "create_reminder"
	ToolListReminders  = "list_reminders"
	ToolCancelReminder = "cancel_reminder"
)

// Knowledge Tools
const (
	ToolSearchKnowledge = "search_knowledge"
)

// GetSheetTools returns the Google Sheets tools.
func GetSheetTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolFetchEmployeeSheet,
				Description: "Fetch task data from an employee's Google Sheet. Use 'me' for the requester's own sheet, or use employee friendly names (mitchell/granger/ignacio/conner).",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"employee_name": map[string]interface{}{
							"type":        "string",
							"description": "Employee friendly name or 'me' for requester's own sheet",
						},
						"worksheet_name": map[string]interface{}{
							"type":        "string",
							"description": "Optional: Specific worksheet name. If not provided, returns list of available worksheets.",
						},
					},
					"required": []string{"employee_name"},
				},
			},
		},
	}
}

// GetReminderTools returns the reminder management tools.
func GetReminderTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolCreateReminder,
				Description: "Create a reminder. Accept ANY natural time expression - don't constrain the user. If unclear, ask them to clarify.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"target_name": map[string]interface{}{
							"type":        "string",
							"description": "Who to remind: 'me' (default) or employee friendly name (mitchell/granger/ignacio/conner)",
						},
						"reminder_text": map[string]interface{}{
							"type":        "string",
							"description": "What to remind about - be specific and clear",
						},
						"time_expression": map[string]interface{}{
							"type":        "string",
							"description": "FLEXIBLE time expression from user's message. Examples: 'tomorrow', 'in 2 hours', 'Monday at 3pm', 'next week', '3pm', 'tomorrow morning'. Accept ANY natural expression.",
						},
					},
					"required": []string{"reminder_text", "time_expression"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolListReminders,
				Description: "List all pending reminders for the requester",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
					"required":   []string{},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolCancelReminder,
				Description: "Cancel a reminder by its ID",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"reminder_id": map[string]interface{}{
							"type":        "integer",
							"description": "The ID of the reminder to cancel",
						},
					},
					"required": []string{"reminder_id"},
				},
			},
		},
	}
}

// GetKnowledgeTools returns the SOP knowledge base tools.
func GetKnowledgeTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolSearchKnowledge,
				Description: "Search the team's SOP knowledge base for procedures, policies and how-to documentation.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "What to look up in the knowledge base",
						},
					},
					"required": []string{"query"},
				},
			},
		},
	}
}

// GetAllTools returns every tool the agent may call. Knowledge tools are
// included only when the knowledge base is wired up.
func GetAllTools(includeKnowledge bool) []adapter.Tool {
	tools := GetSheetTools()
	tools = append(tools, GetReminderTools()...)
	if includeKnowledge {
		tools = append(tools, GetKnowledgeTools()...)
	}
	return tools
}
