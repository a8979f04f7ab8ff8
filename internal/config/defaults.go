package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"
	DefaultDBPath   = "storage.db"

	DefaultReminderTimezone    = "UTC"
	DefaultReminderRecentLimit = 50
	DefaultReminderRetention   = 30 * 24 * time.Hour
	DefaultReminderTimeout     = 2 * time.Minute

	DefaultReminderSchedule  = "0 0 18 * * *"
	DefaultReconcileSchedule = "0 0 * * * *"
	DefaultMaintenanceCron   = "0 30 3 * * 0"
)

// DefaultMessages are the user-facing texts used when the config file sets none.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Hi! I post a reminder every evening with the tasks due tomorrow. Use /help to see the commands.",
	Help: "/tasks - list upcoming tasks\n" +
		"/addtask YYYY-MM-DD HH:MM Title | notes - add a task (admin)\n" +
		"/deltask ID - delete a task (admin)\n" +
		"/remind - post tomorrow's reminder now (admin)\n" +
		"/update - check recent reminders for changes (admin)",
	ErrorUnauthorizedMsg: "🚫 You are not authorized to use this command.",
	ErrorGeneralMsg:      "❌ An error occurred. Please try again later.",
	ErrorNotConfigured:   "⚙️ The reminder channel or role is not configured.",
	NoTasksMsg:           "No upcoming tasks.",
	TasksHeader:          "Upcoming tasks:",
	AddTaskUsage:         "Usage: /addtask YYYY-MM-DD HH:MM Title | optional notes",
	TaskAddedMsg:         "✅ Task added: %s (%s)",
	DeleteTaskUsage:      "Usage: /deltask ID",
	TaskDeletedMsg:       "🗑 Task deleted: %s",
	TaskNotFoundMsg:      "No task matches that ID.",
	TaskAmbiguousMsg:     "More than one task matches that ID; use more characters.",
	ReminderSentMsg:      "📣 Reminder posted.",
	UpdateResultMsg:      "🔎 Checked %d reminder(s), posted %d update(s).",
	NotTrackedMsg:        "⚠️ The message was posted but could not be saved; it will not be checked for updates. Do not post it again.",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("reminder.timezone", DefaultReminderTimezone)
	v.SetDefault("reminder.recent_limit", DefaultReminderRecentLimit)
	v.SetDefault("reminder.retention", DefaultReminderRetention)
	v.SetDefault("reminder.timeout", DefaultReminderTimeout)

	v.SetDefault("scheduler.tasks", map[string]any{
		"task_reminder":      map[string]any{"enabled": true, "schedule": DefaultReminderSchedule},
		"reminder_reconcile": map[string]any{"enabled": false, "schedule": DefaultReconcileSchedule},
		"sql_maintenance":    map[string]any{"enabled": true, "schedule": DefaultMaintenanceCron},
	})

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.error_unauthorized", DefaultMessages.ErrorUnauthorizedMsg)
	v.SetDefault("messages.error_general", DefaultMessages.ErrorGeneralMsg)
	v.SetDefault("messages.error_not_configured", DefaultMessages.ErrorNotConfigured)
	v.SetDefault("messages.no_tasks", DefaultMessages.NoTasksMsg)
	v.SetDefault("messages.tasks_header", DefaultMessages.TasksHeader)
	v.SetDefault("messages.add_task_usage", DefaultMessages.AddTaskUsage)
	v.SetDefault("messages.task_added", DefaultMessages.TaskAddedMsg)
	v.SetDefault("messages.delete_task_usage", DefaultMessages.DeleteTaskUsage)
	v.SetDefault("messages.task_deleted", DefaultMessages.TaskDeletedMsg)
	v.SetDefault("messages.task_not_found", DefaultMessages.TaskNotFoundMsg)
	v.SetDefault("messages.task_ambiguous", DefaultMessages.TaskAmbiguousMsg)
	v.SetDefault("messages.reminder_sent", DefaultMessages.ReminderSentMsg)
	v.SetDefault("messages.update_result", DefaultMessages.UpdateResultMsg)
	v.SetDefault("messages.not_tracked", DefaultMessages.NotTrackedMsg)
}

// isMissingFile reports whether err means the config file does not exist.
// SetConfigFile makes viper return the raw fs error instead of ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
