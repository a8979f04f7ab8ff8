package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/duebot/internal/taskboard"
)

const (
	listLimit   = 20
	listLayout  = "Mon 01/02 15:04"
	listTimeout = 10 * time.Second
)

// NewTasksHandler returns a handler for the /tasks command.
func NewTasksHandler(deps HandlerDeps) bot.HandlerFunc {
	return tasksHandler{deps}.Handle
}

type tasksHandler struct {
	deps HandlerDeps
}

func (h tasksHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "tasks")
	if !validMessage(ctx, log, update) {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	tasks, err := h.deps.Board.Upcoming(timeoutCtx, h.deps.Clock.Now(), listLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err, "chat_id", update.Message.Chat.ID)
		reply(ctx, log, b, update, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	log.InfoContext(ctx, "Listing upcoming tasks", "count", len(tasks), "chat_id", update.Message.Chat.ID)
	if len(tasks) == 0 {
		reply(ctx, log, b, update, h.deps.Config.Messages.NoTasksMsg)
		return
	}
	reply(ctx, log, b, update, formatTaskList(h.deps.Config.Messages.TasksHeader, tasks, h.deps.Location))
}

// formatTaskList renders one line per task: short ID, due time in loc, title.
func formatTaskList(header string, tasks []taskboard.Task, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, t := range tasks {
		fmt.Fprintf(&sb, "\n[%s] %s  %s", t.ShortID(), t.Due.In(loc).Format(listLayout), t.Title)
		if t.Notes != "" {
			fmt.Fprintf(&sb, " (%s)", t.Notes)
		}
	}
	return sb.String()
}
