package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/duebot/internal/config"
	"github.com/edgard/duebot/internal/reminder"
	"github.com/edgard/duebot/internal/taskboard"
)

// Board is the task list as seen by command handlers.
type Board interface {
	Upcoming(ctx context.Context, from time.Time, limit int) ([]taskboard.Task, error)
	Add(ctx context.Context, nt taskboard.NewTask) (taskboard.Task, error)
	Remove(ctx context.Context, idPrefix string) (taskboard.Task, error)
}

// Reminder runs the reminder operations on demand.
type Reminder interface {
	Publish(ctx context.Context) error
	Reconcile(ctx context.Context) (reminder.ReconcileResult, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Board    Board
	Reminder Reminder
	Location *time.Location
	Clock    clockwork.Clock
}
