// Package agent runs the LLM conversation loop: it assembles context,
// lets the model call tools, and produces the final reply.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shiftbot/backend/internal/adapter"
	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/tools"
	"shiftbot/backend/pkg/logger"
)

const (
	// MaxContextMessages caps how many past exchanges are replayed.
	MaxContextMessages = 5

	// MaxToolIterations bounds the tool loop so a confused model cannot
	// spin forever.
	MaxToolIterations = 5
)

const (
	fallbackResponse   = "I'm not sure how to respond to that."
	complexityResponse = "I tried to process your request but ran into complexity limits. Please try rephrasing your question."
)

// LLM generates chat completions.
type LLM interface {
	Generate(ctx context.Context, systemPrompt string, conversation []adapter.Message, toolDefs []adapter.Tool) (*adapter.Response, error)
}

// ConversationStore persists and replays exchanges.
type ConversationStore interface {
	SaveConversation(ctx context.Context, userID, channelID, userMessage, botResponse string) error
	ConversationHistory(ctx context.Context, userID, channelID string, limit int) ([]store.Conversation, error)
}

// ToolRunner executes tool calls.
type ToolRunner interface {
	Execute(ctx context.Context, execCtx *tools.ExecutionContext, toolCall adapter.ToolCall) *tools.ToolResult
	HasKnowledgeBase() bool
}

// Request is one incoming user message with its Discord context.
type Request struct {
	UserID    string
	Username  string
	ChannelID string
	GuildID   string
	Content   string
}

// Orchestrator coordinates the LLM, the tool executor and conversation
// persistence.
type Orchestrator struct {
	llm    LLM
	store  ConversationStore
	tools  ToolRunner
	dir    *permissions.Directory
	logger *zap.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(llm LLM, conversationStore ConversationStore, toolRunner ToolRunner, dir *permissions.Directory) *Orchestrator {
	return &Orchestrator{
		llm:    llm,
		store:  conversationStore,
		tools:  toolRunner,
		dir:    dir,
		logger: logger.Get(),
	}
}

// Respond generates a reply to the request, running tool calls as the
// model asks for them, and records the exchange.
func (o *Orchestrator) Respond(ctx context.Context, req *Request) (string, error) {
	conversation := o.buildContext(ctx, req)
	toolDefs := tools.GetAllTools(o.tools.HasKnowledgeBase())

	execCtx := &tools.ExecutionContext{
		UserID:    req.UserID,
		Username:  req.Username,
		ChannelID: req.ChannelID,
		GuildID:   req.GuildID,
	}

	for iteration := 1; iteration <= MaxToolIterations; iteration++ {
		resp, err := o.llm.Generate(ctx, SystemPrompt, conversation, toolDefs)
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			reply := resp.Content
			if reply == "" {
				reply = fallbackResponse
			}
			o.saveExchange(ctx, req, reply)
			return reply, nil
		}

		o.logger.Debug("Model requested tools",
			zap.Int("iteration", iteration),
			zap.Int("count", len(resp.ToolCalls)),
		)

		conversation = append(conversation, adapter.Message{
			Role:      adapter.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, toolCall := range resp.ToolCalls {
			result := o.tools.Execute(ctx, execCtx, toolCall)
			conversation = append(conversation, adapter.Message{
				Role:       adapter.RoleTool,
				ToolCallID: toolCall.ID,
				Content:    result.Content(),
			})
		}
	}

	o.saveExchange(ctx, req, complexityResponse)
	return complexityResponse, nil
}

// buildContext assembles the replayed history plus the current message
// prefixed with requester identity.
func (o *Orchestrator) buildContext(ctx context.Context, req *Request) []adapter.Message {
	var conversation []adapter.Message

	history, err := o.store.ConversationHistory(ctx, req.UserID, req.ChannelID, MaxContextMessages)
	if err != nil {
		o.logger.Warn("Failed to load conversation history", zap.Error(err))
	}
	for _, entry := range history {
		conversation = append(conversation,
			adapter.Message{Role: adapter.RoleUser, Content: entry.UserMessage},
			adapter.Message{Role: adapter.RoleAssistant, Content: entry.BotResponse},
		)
	}

	requesterContext := fmt.Sprintf("[REQUESTER INFO: Username=%s, Role=%s", req.Username, o.dir.RoleOf(req.Username))
	if friendly := o.dir.FriendlyName(req.Username); friendly != "" {
		requesterContext += ", FriendlyName=" + friendly
	}
	requesterContext += "]"

	conversation = append(conversation, adapter.Message{
		Role:    adapter.RoleUser,
		Content: requesterContext + "\n\n" + req.Content,
	})
	return conversation
}

func (o *Orchestrator) saveExchange(ctx context.Context, req *Request, reply string) {
	if err := o.store.SaveConversation(ctx, req.UserID, req.ChannelID, req.Content, reply); err != nil {
		o.logger.Warn("Failed to save conversation", zap.Error(err))
	}
}
