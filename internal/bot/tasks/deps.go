// Package tasks implements the scheduled jobs of the bot: posting the daily
// reminder, reconciling recent reminders and database upkeep.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/duebot/internal/config"
	"github.com/edgard/duebot/internal/reminder"
)

// Store is the part of the database the jobs need.
type Store interface {
	DeletePostedMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)
	RunSQLMaintenance(ctx context.Context) error
}

// Reminder runs publish and refresh passes.
type Reminder interface {
	Publish(ctx context.Context) error
	Refresh(ctx context.Context) (reminder.ReconcileResult, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    Store
	Reminder Reminder
	Config   *config.Config
	Clock    clockwork.Clock
}

func (d TaskDeps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

func (d TaskDeps) timeout() time.Duration {
	if d.Config != nil && d.Config.Reminder.Timeout > 0 {
		return d.Config.Reminder.Timeout
	}
	return config.DefaultReminderTimeout
}
