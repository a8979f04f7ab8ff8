package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/duebot/internal/config"
	"github.com/edgard/duebot/internal/reminder"
)

type fakeStore struct {
	cutoff    time.Time
	pruneErr  error
	vacuumErr error
	vacuumed  bool
}

func (f *fakeStore) DeletePostedMessagesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.pruneErr
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.vacuumed = true
	return f.vacuumErr
}

type fakeReminder struct {
	publishErr   error
	reconcileErr error
	result       reminder.ReconcileResult
	deadline     bool
}

func (f *fakeReminder) Publish(ctx context.Context) error {
	_, f.deadline = ctx.Deadline()
	return f.publishErr
}

func (f *fakeReminder) Refresh(ctx context.Context) (reminder.ReconcileResult, error) {
	_, f.deadline = ctx.Deadline()
	return f.result, f.reconcileErr
}

func testDeps(store *fakeStore, rem *fakeReminder, clock clockwork.Clock) TaskDeps {
	return TaskDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    store,
		Reminder: rem,
		Config: &config.Config{Reminder: config.ReminderConfig{
			Retention: 72 * time.Hour,
			Timeout:   time.Minute,
		}},
		Clock: clock,
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	got := RegisterAllTasks(testDeps(&fakeStore{}, &fakeReminder{}, nil))
	for _, name := range []string{TaskReminder, ReminderReconcile, SQLMaintenance} {
		if got[name] == nil {
			t.Errorf("task %q not registered", name)
		}
	}
	if len(got) != 3 {
		t.Errorf("registered %d tasks, want 3", len(got))
	}
}

func TestReminderTask(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("boom")
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "success"},
		{name: "failure", err: sendErr, wantErr: true},
		{name: "timeout", err: context.DeadlineExceeded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rem := &fakeReminder{publishErr: tt.err}
			err := newReminderTask(testDeps(&fakeStore{}, rem, nil))(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want wrapping %v", err, tt.err)
			}
			if !rem.deadline {
				t.Error("Publish called without a deadline")
			}
		})
	}
}

func TestReconcileTask(t *testing.T) {
	t.Parallel()

	rem := &fakeReminder{result: reminder.ReconcileResult{Checked: 2, Updated: 1}}
	if err := newReconcileTask(testDeps(&fakeStore{}, rem, nil))(context.Background()); err != nil {
		t.Fatalf("reconcile task: %v", err)
	}
	if !rem.deadline {
		t.Error("Refresh called without a deadline")
	}

	rem = &fakeReminder{reconcileErr: reminder.ErrFetch}
	err := newReconcileTask(testDeps(&fakeStore{}, rem, nil))(context.Background())
	if !errors.Is(err, reminder.ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 3, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	t.Run("prunes then vacuums", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		if err := newSQLMaintenanceTask(testDeps(store, &fakeReminder{}, clock))(context.Background()); err != nil {
			t.Fatalf("maintenance: %v", err)
		}
		if want := now.Add(-72 * time.Hour); !store.cutoff.Equal(want) {
			t.Errorf("cutoff = %v, want %v", store.cutoff, want)
		}
		if !store.vacuumed {
			t.Error("VACUUM not run")
		}
	})

	t.Run("prune failure skips vacuum", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{pruneErr: errors.New("locked")}
		if err := newSQLMaintenanceTask(testDeps(store, &fakeReminder{}, clock))(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if store.vacuumed {
			t.Error("VACUUM run after prune failure")
		}
	})

	t.Run("vacuum failure", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{vacuumErr: errors.New("busy")}
		if err := newSQLMaintenanceTask(testDeps(store, &fakeReminder{}, clock))(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})
}
