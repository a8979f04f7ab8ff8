package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/duebot/internal/config"
	"github.com/edgard/duebot/internal/reminder"
)

// NewRemindHandler returns a handler for the /remind command, which posts
// tomorrow's reminder immediately.
func NewRemindHandler(deps HandlerDeps) bot.HandlerFunc {
	return remindHandler{deps}.Handle
}

type remindHandler struct {
	deps HandlerDeps
}

func (h remindHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "remind")
	if !validMessage(ctx, log, update) {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, reminderTimeout(h.deps))
	defer cancel()

	if err := h.deps.Reminder.Publish(timeoutCtx); err != nil {
		log.ErrorContext(ctx, "Reminder publish failed", "error", err)
		reply(ctx, log, b, update, reminderErrorText(h.deps, err))
		return
	}

	log.InfoContext(ctx, "Reminder published via command", "user_id", update.Message.From.ID)
	if update.Message.Chat.ID != h.deps.Config.Reminder.ChannelID {
		reply(ctx, log, b, update, h.deps.Config.Messages.ReminderSentMsg)
	}
}

// NewUpdateHandler returns a handler for the /update command, which
// reconciles recent reminders with the current task list.
func NewUpdateHandler(deps HandlerDeps) bot.HandlerFunc {
	return updateHandler{deps}.Handle
}

type updateHandler struct {
	deps HandlerDeps
}

func (h updateHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "update")
	if !validMessage(ctx, log, update) {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, reminderTimeout(h.deps))
	defer cancel()

	result, err := h.deps.Reminder.Reconcile(timeoutCtx)
	if err != nil {
		log.ErrorContext(ctx, "Reminder reconcile failed", "error", err, "checked", result.Checked, "updated", result.Updated)
		reply(ctx, log, b, update, reminderErrorText(h.deps, err))
		return
	}

	log.InfoContext(ctx, "Reminders reconciled via command", "checked", result.Checked, "updated", result.Updated)
	reply(ctx, log, b, update, fmt.Sprintf(h.deps.Config.Messages.UpdateResultMsg, result.Checked, result.Updated))
}

func reminderTimeout(deps HandlerDeps) time.Duration {
	if deps.Config.Reminder.Timeout > 0 {
		return deps.Config.Reminder.Timeout
	}
	return config.DefaultReminderTimeout
}

func reminderErrorText(deps HandlerDeps, err error) string {
	switch {
	case errors.Is(err, reminder.ErrConfigMissing):
		return deps.Config.Messages.ErrorNotConfigured
	case errors.Is(err, reminder.ErrNotRecorded):
		return deps.Config.Messages.NotTrackedMsg
	default:
		return deps.Config.Messages.ErrorGeneralMsg
	}
}
