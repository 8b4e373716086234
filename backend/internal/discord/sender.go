package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	apperrors "shiftbot/backend/pkg/errors"
)

// maxMessageLength is Discord's hard cap per message.
const maxMessageLength = 2000

// SendChunked sends content to a channel, splitting it into multiple
// messages when it exceeds Discord's length limit. Splits prefer line
// boundaries.
func SendChunked(s *discordgo.Session, channelID, content string) error {
	for _, chunk := range splitMessage(content, maxMessageLength) {
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			return apperrors.NewDiscordMessageSendFailed(channelID, err)
		}
	}
	return nil
}

func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	for len(content) > limit {
		cut := strings.LastIndex(content[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, content[:cut])
		content = strings.TrimLeft(content[cut:], "\n")
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}

// Notifier sends plain messages and embeds outside a message-handler
// context, for reminders and shift reports.
type Notifier struct {
	session *discordgo.Session
}

// NewNotifier wraps a session for scheduled sends.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

// Send posts a plain text message, chunking as needed.
func (n *Notifier) Send(channelID, content string) error {
	return SendChunked(n.session, channelID, content)
}

// SendEmbed posts an embed.
func (n *Notifier) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := n.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return apperrors.NewDiscordMessageSendFailed(channelID, err)
	}
	return nil
}
