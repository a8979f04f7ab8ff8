package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// reply sends text to the chat the update came from and logs failures.
func reply(ctx context.Context, log *slog.Logger, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// commandArgs returns the text following the command word.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, " \n\t"); i != -1 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// validMessage reports whether the update carries a message with a sender.
func validMessage(ctx context.Context, log *slog.Logger, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Handler received update with nil message or sender", "update_id", update.ID)
		return false
	}
	return true
}
