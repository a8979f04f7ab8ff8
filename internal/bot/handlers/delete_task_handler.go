package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/duebot/internal/taskboard"
)

// NewDeleteTaskHandler returns a handler for the /deltask command.
func NewDeleteTaskHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteTaskHandler{deps}.Handle
}

type deleteTaskHandler struct {
	deps HandlerDeps
}

func (h deleteTaskHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "deltask")
	if !validMessage(ctx, log, update) {
		return
	}

	id := commandArgs(update.Message.Text)
	if id == "" {
		reply(ctx, log, b, update, h.deps.Config.Messages.DeleteTaskUsage)
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	task, err := h.deps.Board.Remove(timeoutCtx, id)
	switch {
	case errors.Is(err, taskboard.ErrNotFound):
		reply(ctx, log, b, update, h.deps.Config.Messages.TaskNotFoundMsg)
	case errors.Is(err, taskboard.ErrAmbiguous):
		reply(ctx, log, b, update, h.deps.Config.Messages.TaskAmbiguousMsg)
	case err != nil:
		log.ErrorContext(ctx, "Failed to delete task", "error", err, "id", id)
		reply(ctx, log, b, update, h.deps.Config.Messages.ErrorGeneralMsg)
	default:
		log.InfoContext(ctx, "Task deleted via command", "task_id", task.ID, "user_id", update.Message.From.ID)
		reply(ctx, log, b, update, fmt.Sprintf(h.deps.Config.Messages.TaskDeletedMsg, task.Title))
	}
}
