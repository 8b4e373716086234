// Package discord bridges Discord events to the agent and carries
// scheduled notifications back out.
package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"shiftbot/backend/internal/agent"
	"shiftbot/backend/pkg/logger"
)

// Handler handles Discord message processing.
type Handler struct {
	orch   *agent.Orchestrator
	logger *zap.Logger
}

// NewHandler creates a new Discord message handler.
func NewHandler(orch *agent.Orchestrator) *Handler {
	return &Handler{
		orch:   orch,
		logger: logger.Get(),
	}
}

// HandleMessage processes a Discord message. The bot only engages with
// DMs and messages that mention it.
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	isDM := m.GuildID == ""
	isMentioned := false
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}

	content := strings.TrimSpace(m.Content)
	if strings.HasPrefix(content, "<@"+s.State.User.ID+">") || strings.HasPrefix(content, "<@!"+s.State.User.ID+">") {
		isMentioned = true
		content = strings.TrimPrefix(content, "<@"+s.State.User.ID+">")
		content = strings.TrimPrefix(content, "<@!"+s.State.User.ID+">")
		content = strings.TrimSpace(content)
	}

	if !isDM && !isMentioned {
		return
	}
	if content == "" {
		return
	}

	h.logger.Info("Processing Discord message",
		zap.String("user", m.Author.Username),
		zap.String("channel_id", m.ChannelID),
		zap.Bool("is_dm", isDM),
	)

	// Typing indicator while the agent thinks
	_ = s.ChannelTyping(m.ChannelID)

	reply, err := h.orch.Respond(context.Background(), &agent.Request{
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   content,
	})
	if err != nil {
		h.logger.Error("Agent turn failed",
			zap.String("user", m.Author.Username),
			zap.Error(err),
		)
		reply = "Sorry, I encountered an error processing your request. Please try again."
	}

	if err := SendChunked(s, m.ChannelID, reply); err != nil {
		h.logger.Error("Failed to send response",
			zap.String("channel_id", m.ChannelID),
			zap.Error(err),
		)
	}
}
