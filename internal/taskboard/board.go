// Package taskboard holds the shared task list. Reads hand out copies taken
// under a single lock; writes go through to the persistent repository.
package taskboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/duebot/internal/database"
)

var (
	// ErrUnavailable is returned when the task list cannot be loaded.
	ErrUnavailable = errors.New("task list unavailable")
	// ErrInvalidTask is returned when a new task fails validation.
	ErrInvalidTask = errors.New("invalid task")
	// ErrNotFound is returned when no task matches an ID prefix.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one task.
	ErrAmbiguous = errors.New("task id prefix is ambiguous")
)

// Task is a single entry of the shared task list.
type Task struct {
	ID        string
	Title     string
	Notes     string
	Due       time.Time
	CreatedBy int64
	CreatedAt time.Time
}

// ShortID returns the first eight characters of the task ID.
func (t Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// NewTask holds the user-supplied attributes of a task to add.
type NewTask struct {
	Title     string
	Notes     string
	Due       time.Time
	CreatedBy int64
}

// Repository is the persistence the board writes through to.
type Repository interface {
	ListTasks(ctx context.Context) ([]database.Task, error)
	SaveTask(ctx context.Context, task *database.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Board is the in-memory shared task list.
type Board struct {
	repo   Repository
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []Task
	loaded bool
}

// NewBoard creates a board backed by repo. The list is loaded on first use.
func NewBoard(repo Repository, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Board{
		repo:   repo,
		logger: logger.With("component", "taskboard"),
	}
}

// Load replaces the in-memory list with the repository contents.
func (b *Board) Load(ctx context.Context) error {
	rows, err := b.repo.ListTasks(ctx)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to load tasks", "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, fromRow(row))
	}

	b.mu.Lock()
	b.tasks = tasks
	b.loaded = true
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "Loaded tasks", "count", len(tasks))
	return nil
}

// Snapshot returns a copy of the current task list in store order.
func (b *Board) Snapshot(ctx context.Context) ([]Task, error) {
	if !b.isLoaded() {
		if err := b.Load(ctx); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Task(nil), b.tasks...), nil
}

// Upcoming returns up to limit tasks due after from, ordered by due time.
// A limit of zero or less returns all of them.
func (b *Board) Upcoming(ctx context.Context, from time.Time, limit int) ([]Task, error) {
	tasks, err := b.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := tasks[:0]
	for _, t := range tasks {
		if t.Due.After(from) {
			upcoming = append(upcoming, t)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Due.Before(upcoming[j].Due) })

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

// Add validates, persists and appends a new task.
func (b *Board) Add(ctx context.Context, nt NewTask) (Task, error) {
	nt.Title = strings.TrimSpace(nt.Title)
	nt.Notes = strings.TrimSpace(nt.Notes)
	if nt.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if nt.Due.IsZero() {
		return Task{}, fmt.Errorf("%w: due time is required", ErrInvalidTask)
	}

	if !b.isLoaded() {
		if err := b.Load(ctx); err != nil {
			return Task{}, err
		}
	}

	row := database.Task{
		ID:        uuid.NewString(),
		Title:     nt.Title,
		Notes:     nt.Notes,
		DueAt:     nt.Due,
		CreatedBy: nt.CreatedBy,
	}
	if err := b.repo.SaveTask(ctx, &row); err != nil {
		return Task{}, fmt.Errorf("failed to save task: %w", err)
	}

	task := fromRow(row)
	task.Due = nt.Due

	b.mu.Lock()
	b.tasks = append(b.tasks, task)
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "Task added", "task_id", task.ID, "due", task.Due, "created_by", task.CreatedBy)
	return task, nil
}

// Remove deletes the single task whose ID starts with idPrefix.
func (b *Board) Remove(ctx context.Context, idPrefix string) (Task, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return Task{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	tasks, err := b.Snapshot(ctx)
	if err != nil {
		return Task{}, err
	}

	var match *Task
	for i := range tasks {
		if !strings.HasPrefix(tasks[i].ID, idPrefix) {
			continue
		}
		if match != nil {
			return Task{}, fmt.Errorf("%w: %q", ErrAmbiguous, idPrefix)
		}
		match = &tasks[i]
	}
	if match == nil {
		return Task{}, fmt.Errorf("%w: %q", ErrNotFound, idPrefix)
	}

	if err := b.repo.DeleteTask(ctx, match.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
		return Task{}, fmt.Errorf("failed to delete task: %w", err)
	}

	b.mu.Lock()
	for i := range b.tasks {
		if b.tasks[i].ID == match.ID {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "Task removed", "task_id", match.ID)
	return *match, nil
}

func (b *Board) isLoaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

func fromRow(row database.Task) Task {
	return Task{
		ID:        row.ID,
		Title:     row.Title,
		Notes:     row.Notes,
		Due:       row.DueAt,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}
