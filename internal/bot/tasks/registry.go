package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names as used in the scheduler.tasks section of the config.
const (
	TaskReminder      = "task_reminder"
	ReminderReconcile = "reminder_reconcile"
	SQLMaintenance    = "sql_maintenance"
)

// RegisterAllTasks returns the scheduled tasks keyed by config name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		TaskReminder:      newReminderTask(deps),
		ReminderReconcile: newReconcileTask(deps),
		SQLMaintenance:    newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
