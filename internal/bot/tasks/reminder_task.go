package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// newReminderTask posts the reminder for tasks due tomorrow.
func newReminderTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TaskReminder)

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled reminder task...")
		startTime := time.Now()

		timeoutCtx, cancel := context.WithTimeout(ctx, deps.timeout())
		defer cancel()

		err := deps.Reminder.Publish(timeoutCtx)
		duration := time.Since(startTime)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			log.WarnContext(ctx, "Reminder publish timed out or was cancelled", "error", err, "duration", duration)
			return fmt.Errorf("reminder publish timed out or was cancelled: %w", err)
		}
		if err != nil {
			log.ErrorContext(ctx, "Reminder publish failed", "error", err, "duration", duration)
			return fmt.Errorf("reminder publish failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled reminder task completed", "duration", duration)
		return nil
	}
}

// newReconcileTask replies to recent reminders whose content is out of date,
// once per change.
func newReconcileTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", ReminderReconcile)

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled reconcile task...")
		startTime := time.Now()

		timeoutCtx, cancel := context.WithTimeout(ctx, deps.timeout())
		defer cancel()

		result, err := deps.Reminder.Refresh(timeoutCtx)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Reminder reconcile failed",
				"error", err,
				"checked", result.Checked,
				"updated", result.Updated,
				"skipped", result.Skipped,
				"duration", duration)
			return fmt.Errorf("reminder reconcile failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled reconcile task completed",
			"checked", result.Checked,
			"updated", result.Updated,
			"skipped", result.Skipped,
			"duration", duration)
		return nil
	}
}
