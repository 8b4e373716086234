package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeDiscord represents Discord-related errors
	ErrorTypeDiscord ErrorType = "discord"
	// ErrorTypeAgent represents agent/LLM-related errors
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeSheet represents Google Sheets errors
	ErrorTypeSheet ErrorType = "sheet"
	// ErrorTypeStore represents sqlite persistence errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeKnowledge represents knowledge base errors
	ErrorTypeKnowledge ErrorType = "knowledge"
	// ErrorTypeTool represents tool execution errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Discord Errors

// ErrDiscordSessionUnavailable is returned when the Discord session is not available
var ErrDiscordSessionUnavailable = NewBaseError(ErrorTypeDiscord, "Discord session not available", nil)

// ErrDiscordChannelNotFound is returned when a Discord channel cannot be found
type ErrDiscordChannelNotFound struct {
	*BaseError
	ChannelID string
}

func NewDiscordChannelNotFound(channelID string) *ErrDiscordChannelNotFound {
	return &ErrDiscordChannelNotFound{
		BaseError: NewBaseError(ErrorTypeDiscord, fmt.Sprintf("channel not found: %s", channelID), nil),
		ChannelID: channelID,
	}
}

// ErrDiscordMessageSendFailed is returned when sending a Discord message fails
type ErrDiscordMessageSendFailed struct {
	*BaseError
	ChannelID string
}

func NewDiscordMessageSendFailed(channelID string, err error) *ErrDiscordMessageSendFailed {
	return &ErrDiscordMessageSendFailed{
		BaseError: NewBaseError(ErrorTypeDiscord, "failed to send message", err),
		ChannelID: channelID,
	}
}

// Agent Errors

// ErrAgentNoResponse is returned when the LLM returns no response
var ErrAgentNoResponse = NewBaseError(ErrorTypeAgent, "no response from LLM", nil)

// ErrAgentLLMFailed is returned when an LLM request fails
type ErrAgentLLMFailed struct {
	*BaseError
	Model     string
	Attempts  int
	Retryable bool
}

func NewAgentLLMFailed(model string, attempts int, retryable bool, err error) *ErrAgentLLMFailed {
	return &ErrAgentLLMFailed{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// ErrAgentMaxIterations is returned when the tool loop exceeds its budget
var ErrAgentMaxIterations = NewBaseError(ErrorTypeAgent, "maximum tool iterations reached", nil)

// Sheet Errors

// ErrSheetAccessDenied is returned when the requester cannot access the target sheet
type ErrSheetAccessDenied struct {
	*BaseError
	Requester string
	Target    string
}

func NewSheetAccessDenied(requester, target string) *ErrSheetAccessDenied {
	return &ErrSheetAccessDenied{
		BaseError: NewBaseError(ErrorTypeSheet, fmt.Sprintf("%s cannot access sheet of %s", requester, target), nil),
		Requester: requester,
		Target:    target,
	}
}

// ErrSheetFetchFailed is returned when reading a spreadsheet fails
type ErrSheetFetchFailed struct {
	*BaseError
	SpreadsheetID string
}

func NewSheetFetchFailed(spreadsheetID string, err error) *ErrSheetFetchFailed {
	return &ErrSheetFetchFailed{
		BaseError: NewBaseError(ErrorTypeSheet, fmt.Sprintf("failed to fetch sheet: %s", spreadsheetID), err),
		SpreadsheetID: spreadsheetID,
	}
}

// Store Errors

// ErrStoreQueryFailed is returned when a sqlite query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrReminderNotFound is returned when a reminder does not exist
type ErrReminderNotFound struct {
	*BaseError
	ReminderID int64
}

func NewReminderNotFound(reminderID int64) *ErrReminderNotFound {
	return &ErrReminderNotFound{
		BaseError:  NewBaseError(ErrorTypeStore, fmt.Sprintf("reminder not found: %d", reminderID), nil),
		ReminderID: reminderID,
	}
}

// Knowledge Errors

// ErrKnowledgeConnectionFailed is returned when the Neo4j connection fails
type ErrKnowledgeConnectionFailed struct {
	*BaseError
	URI string
}

func NewKnowledgeConnectionFailed(uri string, err error) *ErrKnowledgeConnectionFailed {
	return &ErrKnowledgeConnectionFailed{
		BaseError: NewBaseError(ErrorTypeKnowledge, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrDocumentNotFound is returned when a knowledge document does not exist
type ErrDocumentNotFound struct {
	*BaseError
	Name string
}

func NewDocumentNotFound(name string) *ErrDocumentNotFound {
	return &ErrDocumentNotFound{
		BaseError: NewBaseError(ErrorTypeKnowledge, fmt.Sprintf("document not found: %s", name), nil),
		Name:      name,
	}
}

// Tool Errors

// ErrToolNotFound is returned when a requested tool is not found
type ErrToolNotFound struct {
	*BaseError
	ToolName string
}

func NewToolNotFound(toolName string) *ErrToolNotFound {
	return &ErrToolNotFound{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool not found: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrToolExecutionFailed is returned when tool execution fails
type ErrToolExecutionFailed struct {
	*BaseError
	ToolName string
	Reason   string
}

func NewToolExecutionFailed(toolName, reason string, err error) *ErrToolExecutionFailed {
	return &ErrToolExecutionFailed{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool execution failed: %s", toolName), err),
		ToolName:  toolName,
		Reason:    reason,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	if llmErr, ok := err.(*ErrAgentLLMFailed); ok {
		return llmErr.Retryable
	}
	// Sheet and knowledge store hiccups are usually transient
	if IsErrorType(err, ErrorTypeSheet) || IsErrorType(err, ErrorTypeKnowledge) {
		return true
	}
	return false
}
