package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a row addressed by key does not exist.
var ErrNotFound = errors.New("record not found")

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 100
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ListTasks returns every task in insertion order.
	ListTasks(ctx context.Context) ([]Task, error)

	// SaveTask inserts or replaces a task keyed by its ID.
	SaveTask(ctx context.Context, task *Task) error

	// DeleteTask removes a task by ID. Returns ErrNotFound if no row matched.
	DeleteTask(ctx context.Context, id string) error

	// SavePostedMessage records a message sent by the bot.
	SavePostedMessage(ctx context.Context, msg *PostedMessage) error

	// GetRecentPostedMessages returns up to limit posted messages for a chat, newest first.
	GetRecentPostedMessages(ctx context.Context, chatID int64, limit int) ([]PostedMessage, error)

	// DeletePostedMessagesBefore removes posted message records created before the cutoff.
	DeletePostedMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// ListTasks returns every task ordered by insertion (rowid), which is the
// tie-break order used when tasks share a due time.
func (s *sqlxStore) ListTasks(ctx context.Context) ([]Task, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var tasks []Task
	query := `SELECT id, title, notes, due_at, created_by, created_at FROM tasks ORDER BY rowid ASC`

	err := s.db.SelectContext(ctx, &tasks, query)
	switch {
	case isContextErr(err):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing tasks", "error", err)
		return nil, err
	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	for i := range tasks {
		tasks[i].DueAt = tasks[i].DueAt.UTC()
		tasks[i].CreatedAt = tasks[i].CreatedAt.UTC()
	}

	s.logger.DebugContext(ctx, "Listed tasks", "count", len(tasks))
	return tasks, nil
}

// SaveTask inserts or replaces a task. CreatedAt is filled in when zero.
func (s *sqlxStore) SaveTask(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("cannot save nil task")
	}
	if task.ID == "" {
		return fmt.Errorf("task must have a non-empty id")
	}
	if task.Title == "" {
		return fmt.Errorf("task must have a non-empty title")
	}
	if task.DueAt.IsZero() {
		return fmt.Errorf("task must have a non-zero due time")
	}

	if task.CreatedAt.IsZero() {
		task.CreatedAt = utcNow()
	}
	task.DueAt = task.DueAt.UTC()
	task.CreatedAt = task.CreatedAt.UTC()

	query := `
        INSERT INTO tasks (id, title, notes, due_at, created_by, created_at)
        VALUES (:id, :title, :notes, :due_at, :created_by, :created_at)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            notes = excluded.notes,
            due_at = excluded.due_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, task); err != nil {
		if isContextErr(err) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while saving task", "task_id", task.ID, "error", err)
			return err
		}
		s.logger.ErrorContext(ctx, "Error saving task", "task_id", task.ID, "error", err)
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}

	s.logger.DebugContext(ctx, "Task saved successfully", "task_id", task.ID, "due_at", task.DueAt)
	return nil
}

// DeleteTask removes a task by ID.
func (s *sqlxStore) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("task id cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		if isContextErr(err) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while deleting task", "task_id", id, "error", err)
			return err
		}
		s.logger.ErrorContext(ctx, "Error deleting task", "task_id", id, "error", err)
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.logger.DebugContext(ctx, "Task deleted successfully", "task_id", id)
	return nil
}

// SavePostedMessage records a message sent by the bot, filling in ID.
func (s *sqlxStore) SavePostedMessage(ctx context.Context, msg *PostedMessage) error {
	if msg == nil {
		return fmt.Errorf("cannot save nil posted message")
	}
	if msg.ChatID == 0 {
		return fmt.Errorf("posted message must have a non-zero chat_id")
	}
	if msg.MessageID == 0 {
		return fmt.Errorf("posted message must have a non-zero message_id")
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = utcNow()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving posted message",
			"chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO posted_messages (chat_id, message_id, author_id, reply_to_message_id, content, notification, created_at)
        VALUES (:chat_id, :message_id, :author_id, :reply_to_message_id, :content, :notification, :created_at);
    `

	result, err := tx.NamedExecContext(ctx, query, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving posted message", "chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
		return fmt.Errorf("failed to save posted message (chat %d, message %d): %w", msg.ChatID, msg.MessageID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		msg.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving posted message",
			"chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "chat_id", msg.ChatID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Posted message saved successfully",
		"chat_id", msg.ChatID, "message_id", msg.MessageID, "reply_to", msg.ReplyToMessageID)
	return nil
}

// GetRecentPostedMessages returns the most recent posted messages for a chat, newest first.
func (s *sqlxStore) GetRecentPostedMessages(ctx context.Context, chatID int64, limit int) ([]PostedMessage, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	if limit <= 0 {
		limit = defaultRecentLimit
		s.logger.DebugContext(ctx, "Invalid limit provided, using default", "chat_id", chatID, "default_limit", limit)
	} else if limit > maxRecentLimit {
		limit = maxRecentLimit
		s.logger.DebugContext(ctx, "Limit exceeded maximum value, capping", "chat_id", chatID, "capped_limit", limit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []PostedMessage
	query := `
        SELECT id, chat_id, message_id, author_id, reply_to_message_id, content, notification, created_at
        FROM posted_messages
        WHERE chat_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &messages, query, chatID, limit)
	switch {
	case isContextErr(err):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching posted messages", "chat_id", chatID, "error", err)
		return nil, err
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting posted messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get posted messages for chat %d: %w", chatID, err)
	}

	for i := range messages {
		messages[i].CreatedAt = messages[i].CreatedAt.UTC()
	}

	s.logger.DebugContext(ctx, "Fetched posted messages successfully", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

// DeletePostedMessagesBefore prunes posted message records older than cutoff.
func (s *sqlxStore) DeletePostedMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posted_messages WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		if isContextErr(err) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while pruning posted messages", "error", err)
			return 0, err
		}
		s.logger.ErrorContext(ctx, "Error pruning posted messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune posted messages: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not determine rows affected when pruning", "error", err)
		return 0, nil
	}

	s.logger.InfoContext(ctx, "Pruned posted messages", "cutoff", cutoff, "deleted", affected)
	return affected, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case isContextErr(err):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
