package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/duebot/internal/taskboard"
)

const dueInputLayout = "2006-01-02 15:04"

var errUsage = errors.New("invalid command arguments")

// NewAddTaskHandler returns a handler for the /addtask command.
func NewAddTaskHandler(deps HandlerDeps) bot.HandlerFunc {
	return addTaskHandler{deps}.Handle
}

type addTaskHandler struct {
	deps HandlerDeps
}

func (h addTaskHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "addtask")
	if !validMessage(ctx, log, update) {
		return
	}

	nt, err := parseNewTask(commandArgs(update.Message.Text), h.deps.Location)
	if err != nil {
		log.InfoContext(ctx, "Rejected /addtask arguments", "error", err, "user_id", update.Message.From.ID)
		reply(ctx, log, b, update, h.deps.Config.Messages.AddTaskUsage)
		return
	}
	nt.CreatedBy = update.Message.From.ID

	timeoutCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	task, err := h.deps.Board.Add(timeoutCtx, nt)
	switch {
	case errors.Is(err, taskboard.ErrInvalidTask):
		reply(ctx, log, b, update, h.deps.Config.Messages.AddTaskUsage)
		return
	case err != nil:
		log.ErrorContext(ctx, "Failed to add task", "error", err)
		reply(ctx, log, b, update, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	log.InfoContext(ctx, "Task added via command", "task_id", task.ID, "user_id", nt.CreatedBy)
	reply(ctx, log, b, update, fmt.Sprintf(h.deps.Config.Messages.TaskAddedMsg, task.Title, task.ShortID()))
}

// parseNewTask parses "YYYY-MM-DD HH:MM Title | notes" with the time read in loc.
func parseNewTask(args string, loc *time.Location) (taskboard.NewTask, error) {
	if loc == nil {
		loc = time.UTC
	}

	parts := strings.Fields(args)
	if len(parts) < 3 {
		return taskboard.NewTask{}, fmt.Errorf("%w: need date, time and title", errUsage)
	}

	due, err := time.ParseInLocation(dueInputLayout, parts[0]+" "+parts[1], loc)
	if err != nil {
		return taskboard.NewTask{}, fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := strings.Join(parts[2:], " ")
	title, notes, _ := strings.Cut(rest, "|")
	title = strings.TrimSpace(title)
	if title == "" {
		return taskboard.NewTask{}, fmt.Errorf("%w: empty title", errUsage)
	}

	return taskboard.NewTask{Title: title, Notes: strings.TrimSpace(notes), Due: due}, nil
}
