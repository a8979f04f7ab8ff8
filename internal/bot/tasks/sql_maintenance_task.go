package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/duebot/internal/config"
)

// newSQLMaintenanceTask prunes posted message records older than the
// retention window and then compacts the database.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", SQLMaintenance)

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled SQL maintenance task...")
		startTime := time.Now()

		retention := config.DefaultReminderRetention
		if deps.Config != nil && deps.Config.Reminder.Retention > 0 {
			retention = deps.Config.Reminder.Retention
		}
		cutoff := deps.now().Add(-retention)

		pruned, err := deps.Store.DeletePostedMessagesBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Failed to prune posted messages", "error", err, "cutoff", cutoff)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}
		log.InfoContext(ctx, "Pruned posted messages", "count", pruned, "cutoff", cutoff)

		err = deps.Store.RunSQLMaintenance(ctx)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled SQL maintenance task completed successfully", "duration", duration)
		return nil
	}
}
