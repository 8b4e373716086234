package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "shiftbot/backend/pkg/errors"
)

// Conversation is one user message / bot response exchange.
type Conversation struct {
	ID          int64
	UserID      string
	ChannelID   string
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}

// SaveConversation records one exchange.
func (s *Store) SaveConversation(ctx context.Context, userID, channelID, userMessage, botResponse string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_history (user_id, channel_id, user_message, bot_response, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, channelID, userMessage, botResponse, time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("save conversation", err)
	}

	s.logger.Debug("Conversation saved",
		zap.String("user_id", userID),
		zap.String("channel_id", channelID),
	)
	return nil
}

// ConversationHistory returns the most recent exchanges for a user in a
// channel, oldest first.
func (s *Store) ConversationHistory(ctx context.Context, userID, channelID string, limit int) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, channel_id, user_message, bot_response, timestamp
		 FROM conversation_history
		 WHERE user_id = ? AND channel_id = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		userID, channelID, limit,
	)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("conversation history", err)
	}
	defer rows.Close()

	var history []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.ChannelID, &c.UserMessage, &c.BotResponse, &c.Timestamp); err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan conversation", err)
		}
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("conversation history", err)
	}

	// Query returns newest first; flip to chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// ClearConversationHistory deletes all exchanges for a user in a channel.
func (s *Store) ClearConversationHistory(ctx context.Context, userID, channelID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM conversation_history WHERE user_id = ? AND channel_id = ?`,
		userID, channelID,
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("clear conversation history", err)
	}
	return nil
}

// ConversationCount returns the total number of exchanges for a user.
func (s *Store) ConversationCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation_history WHERE user_id = ?`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("conversation count", err)
	}
	return count, nil
}
