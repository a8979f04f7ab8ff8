package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/duebot/internal/database"
)

// newTestStore creates an in-memory store with all migrations applied.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestTaskRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	due := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	in := []database.Task{
		{ID: "b", Title: "Second inserted", DueAt: due, CreatedBy: 7, CreatedAt: created},
		{ID: "a", Title: "Third inserted", Notes: "bring slides", DueAt: due.Add(time.Hour), CreatedBy: 7, CreatedAt: created},
	}
	for i := range in {
		if err := store.SaveTask(ctx, &in[i]); err != nil {
			t.Fatalf("SaveTask(%s) error = %v", in[i].ID, err)
		}
	}

	got, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("ListTasks() mismatch (-want +got):\n%s", diff)
	}

	if err := store.DeleteTask(ctx, "b"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if err := store.DeleteTask(ctx, "b"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("DeleteTask() on missing row error = %v, want ErrNotFound", err)
	}

	got, err = store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("ListTasks() after delete = %+v, want only task a", got)
	}
}

func TestSaveTaskValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	due := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task *database.Task
	}{
		{name: "nil task", task: nil},
		{name: "missing id", task: &database.Task{Title: "x", DueAt: due}},
		{name: "missing title", task: &database.Task{ID: "x", DueAt: due}},
		{name: "missing due", task: &database.Task{ID: "x", Title: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.SaveTask(context.Background(), tc.task); err == nil {
				t.Errorf("SaveTask() error = nil, want validation error")
			}
		})
	}
}

func TestPostedMessages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 10, 18, 18, 0, 0, 0, time.UTC)
	msgs := []database.PostedMessage{
		{ChatID: -100, MessageID: 1, AuthorID: 42, Notification: `{"title":"a"}`, CreatedAt: base},
		{ChatID: -100, MessageID: 2, AuthorID: 42, ReplyToMessageID: 1, Content: "update", CreatedAt: base.Add(time.Hour)},
		{ChatID: -200, MessageID: 3, AuthorID: 42, CreatedAt: base.Add(2 * time.Hour)},
		{ChatID: -100, MessageID: 4, AuthorID: 42, CreatedAt: base.Add(24 * time.Hour)},
	}
	for i := range msgs {
		if err := store.SavePostedMessage(ctx, &msgs[i]); err != nil {
			t.Fatalf("SavePostedMessage(%d) error = %v", msgs[i].MessageID, err)
		}
		if msgs[i].ID == 0 {
			t.Errorf("SavePostedMessage(%d) did not assign ID", msgs[i].MessageID)
		}
	}

	got, err := store.GetRecentPostedMessages(ctx, -100, 10)
	if err != nil {
		t.Fatalf("GetRecentPostedMessages() error = %v", err)
	}
	var ids []int64
	for _, m := range got {
		ids = append(ids, m.MessageID)
	}
	if diff := cmp.Diff([]int64{4, 2, 1}, ids); diff != "" {
		t.Errorf("GetRecentPostedMessages() order mismatch (-want +got):\n%s", diff)
	}
	if got[1].ReplyToMessageID != 1 || got[2].Notification != `{"title":"a"}` {
		t.Errorf("GetRecentPostedMessages() lost columns: %+v", got)
	}

	limited, err := store.GetRecentPostedMessages(ctx, -100, 1)
	if err != nil {
		t.Fatalf("GetRecentPostedMessages(limit=1) error = %v", err)
	}
	if len(limited) != 1 || limited[0].MessageID != 4 {
		t.Errorf("GetRecentPostedMessages(limit=1) = %+v, want message 4", limited)
	}

	deleted, err := store.DeletePostedMessagesBefore(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("DeletePostedMessagesBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeletePostedMessagesBefore() deleted = %d, want 2", deleted)
	}

	if err := store.RunSQLMaintenance(ctx); err != nil {
		t.Errorf("RunSQLMaintenance() error = %v", err)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"storage.db":                "storage.db",
		"file:storage.db?_pragma=x": "storage.db",
		"file:my%20data.db":         "my data.db",
		":memory:":                  ":memory:",
	}
	for in, want := range tests {
		if got := database.ExtractDBNameFromPath(in); got != want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
