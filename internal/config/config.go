// Package config provides configuration loading, validation, and management
// for the bot. It reads a YAML file, applies defaults and DUEBOT_* environment
// overrides, and validates the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credentials. BotInfo is filled in at runtime.
type TelegramConfig struct {
	Token       string       `mapstructure:"token"         validate:"required"`
	AdminUserID int64        `mapstructure:"admin_user_id" validate:"required,gt=0"`
	BotInfo     *models.User `mapstructure:"-"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ReminderConfig describes where reminders are posted. ChannelID and Role
// may be empty at load time; reminders then fail until they are set.
type ReminderConfig struct {
	ChannelID   int64         `mapstructure:"channel_id"`
	Role        string        `mapstructure:"role"`
	Timezone    string        `mapstructure:"timezone"     validate:"required,timezone"`
	RecentLimit int           `mapstructure:"recent_limit" validate:"min=1,max=100"`
	Retention   time.Duration `mapstructure:"retention"    validate:"min=48h"`
	Timeout     time.Duration `mapstructure:"timeout"      validate:"min=1s,max=10m"`
}

// Location returns the reminder time zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// SchedulerConfig lists the scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a scheduled task on a cron schedule (seconds field optional).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user-facing texts.
type MessagesConfig struct {
	Welcome              string `mapstructure:"welcome"`
	Help                 string `mapstructure:"help"`
	ErrorUnauthorizedMsg string `mapstructure:"error_unauthorized"`
	ErrorGeneralMsg      string `mapstructure:"error_general"`
	ErrorNotConfigured   string `mapstructure:"error_not_configured"`
	NoTasksMsg           string `mapstructure:"no_tasks"`
	TasksHeader          string `mapstructure:"tasks_header"`
	AddTaskUsage         string `mapstructure:"add_task_usage"`
	TaskAddedMsg         string `mapstructure:"task_added"`
	DeleteTaskUsage      string `mapstructure:"delete_task_usage"`
	TaskDeletedMsg       string `mapstructure:"task_deleted"`
	TaskNotFoundMsg      string `mapstructure:"task_not_found"`
	TaskAmbiguousMsg     string `mapstructure:"task_ambiguous"`
	ReminderSentMsg      string `mapstructure:"reminder_sent"`
	UpdateResultMsg      string `mapstructure:"update_result"`
	NotTrackedMsg        string `mapstructure:"not_tracked"`
}

// LoadConfig reads configuration from path, applying defaults and
// DUEBOT_* environment overrides (e.g. DUEBOT_TELEGRAM_TOKEN), then validates it.
// A missing file is not an error as long as the required values come from the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DUEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfiguration, path, err)
		}
	}

	// Environment-only values need an explicit binding to be seen by Unmarshal.
	for _, key := range []string{"telegram.token", "telegram.admin_user_id", "reminder.channel_id", "reminder.role"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %w", ErrConfiguration, key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}
