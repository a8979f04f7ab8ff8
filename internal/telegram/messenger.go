package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/duebot/internal/database"
	"github.com/edgard/duebot/internal/reminder"
)

// Sender is the part of *bot.Bot the messenger needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// MessageLog records and lists the messages the bot has posted.
type MessageLog interface {
	SavePostedMessage(ctx context.Context, msg *database.PostedMessage) error
	GetRecentPostedMessages(ctx context.Context, chatID int64, limit int) ([]database.PostedMessage, error)
}

// Messenger implements reminder.Messenger on top of the Telegram Bot API.
// Bots cannot read chat history, so every message sent through it is
// recorded and Recent reads that record back.
type Messenger struct {
	sender      Sender
	log         MessageLog
	botID       int64
	recentLimit int
	logger      *slog.Logger
}

// NewMessenger creates a messenger sending as botID.
func NewMessenger(sender Sender, log MessageLog, botID int64, recentLimit int, logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Messenger{
		sender:      sender,
		log:         log,
		botID:       botID,
		recentLimit: recentLimit,
		logger:      logger.With("component", "telegram_messenger"),
	}
}

// Send posts msg and records it. A message that was posted but could not be
// recorded yields an error wrapping reminder.ErrNotRecorded.
func (m *Messenger) Send(ctx context.Context, msg reminder.OutgoingMessage) (*reminder.PostedMessage, error) {
	var encoded string
	if msg.Notification != nil {
		raw, err := json.Marshal(msg.Notification)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification: %w", err)
		}
		encoded = string(raw)
	}

	params := &bot.SendMessageParams{
		ChatID:    msg.ChannelID,
		Text:      FormatMessage(msg.Content, msg.Notification),
		ParseMode: models.ParseModeHTML,
	}
	if msg.ReplyToID != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: int(msg.ReplyToID)}
	}

	sent, err := m.sender.SendMessage(ctx, params)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to send message", "chat_id", msg.ChannelID, "reply_to", msg.ReplyToID, "error", err)
		return nil, fmt.Errorf("failed to send message to chat %d: %w", msg.ChannelID, err)
	}

	createdAt := time.Unix(int64(sent.Date), 0).UTC()
	if sent.Date == 0 {
		createdAt = time.Now().UTC()
	}
	authorID := m.botID
	if sent.From != nil {
		authorID = sent.From.ID
	}

	row := &database.PostedMessage{
		ChatID:           msg.ChannelID,
		MessageID:        int64(sent.ID),
		AuthorID:         authorID,
		ReplyToMessageID: msg.ReplyToID,
		Content:          msg.Content,
		Notification:     encoded,
		CreatedAt:        createdAt,
	}
	if err := m.log.SavePostedMessage(ctx, row); err != nil {
		m.logger.ErrorContext(ctx, "Message sent but could not be recorded", "chat_id", msg.ChannelID, "message_id", sent.ID, "error", err)
		return nil, fmt.Errorf("%w: message %d: %w", reminder.ErrNotRecorded, sent.ID, err)
	}

	m.logger.DebugContext(ctx, "Message sent", "chat_id", msg.ChannelID, "message_id", sent.ID, "reply_to", msg.ReplyToID)
	return toPosted(row, msg.Notification), nil
}

// Recent returns the latest recorded messages for a chat, newest first.
func (m *Messenger) Recent(ctx context.Context, channelID int64) ([]reminder.PostedMessage, error) {
	rows, err := m.log.GetRecentPostedMessages(ctx, channelID, m.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent messages for chat %d: %w", channelID, err)
	}

	out := make([]reminder.PostedMessage, 0, len(rows))
	for i := range rows {
		var n *reminder.Notification
		if rows[i].Notification != "" {
			n = &reminder.Notification{}
			if err := json.Unmarshal([]byte(rows[i].Notification), n); err != nil {
				m.logger.WarnContext(ctx, "Ignoring unreadable notification", "message_id", rows[i].MessageID, "error", err)
				n = nil
			}
		}
		out = append(out, *toPosted(&rows[i], n))
	}
	return out, nil
}

func toPosted(row *database.PostedMessage, n *reminder.Notification) *reminder.PostedMessage {
	return &reminder.PostedMessage{
		ID:           row.MessageID,
		ChannelID:    row.ChatID,
		AuthorID:     row.AuthorID,
		CreatedAt:    row.CreatedAt,
		Content:      row.Content,
		Notification: n,
		ReplyToID:    row.ReplyToMessageID,
	}
}
