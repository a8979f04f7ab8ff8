package reminder

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/duebot/internal/taskboard"
)

func ids(tasks []taskboard.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestSelectDue(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	tasks := []taskboard.Task{
		{ID: "at-from", Due: from},
		{ID: "late", Due: from.Add(20 * time.Hour)},
		{ID: "before", Due: from.Add(-time.Minute)},
		{ID: "tie-1", Due: from.Add(9 * time.Hour)},
		{ID: "at-to", Due: to},
		{ID: "tie-2", Due: from.Add(9 * time.Hour)},
		{ID: "after", Due: to.Add(time.Nanosecond)},
		{ID: "early", Due: from.Add(time.Nanosecond)},
	}

	tests := []struct {
		name  string
		tasks []taskboard.Task
		want  []string
	}{
		{
			name:  "window bounds, ordering and stable ties",
			tasks: tasks,
			want:  []string{"early", "tie-1", "tie-2", "late", "at-to"},
		},
		{
			name:  "empty input",
			tasks: nil,
			want:  []string{},
		},
		{
			name:  "nothing inside the window",
			tasks: []taskboard.Task{{ID: "at-from", Due: from}, {ID: "after", Due: to.Add(time.Second)}},
			want:  []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ids(SelectDue(tc.tasks, from, to))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("SelectDue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectDueDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	tasks := []taskboard.Task{
		{ID: "b", Due: from.Add(2 * time.Hour)},
		{ID: "a", Due: from.Add(time.Hour)},
	}

	_ = SelectDue(tasks, from, from.AddDate(0, 0, 1))
	if diff := cmp.Diff([]string{"b", "a"}, ids(tasks)); diff != "" {
		t.Errorf("SelectDue() modified its input (-want +got):\n%s", diff)
	}
}

func TestTomorrowWindow(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name     string
		now      time.Time
		loc      *time.Location
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "midnight",
			now:      time.Date(2026, 10, 19, 0, 0, 0, 0, tokyo),
			loc:      tokyo,
			wantFrom: time.Date(2026, 10, 20, 0, 0, 0, 0, tokyo),
			wantTo:   time.Date(2026, 10, 21, 0, 0, 0, 0, tokyo),
		},
		{
			name:     "evening",
			now:      time.Date(2026, 10, 19, 18, 30, 0, 0, tokyo),
			loc:      tokyo,
			wantFrom: time.Date(2026, 10, 20, 0, 0, 0, 0, tokyo),
			wantTo:   time.Date(2026, 10, 21, 0, 0, 0, 0, tokyo),
		},
		{
			name:     "utc instant is read in the reminder zone",
			now:      time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC),
			loc:      tokyo,
			wantFrom: time.Date(2026, 10, 21, 0, 0, 0, 0, tokyo),
			wantTo:   time.Date(2026, 10, 22, 0, 0, 0, 0, tokyo),
		},
		{
			name:     "month end",
			now:      time.Date(2026, 10, 31, 9, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			wantFrom: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			from, to := tomorrowWindow(tc.now, tc.loc)
			if !from.Equal(tc.wantFrom) || !to.Equal(tc.wantTo) {
				t.Errorf("tomorrowWindow() = (%v, %v), want (%v, %v)", from, to, tc.wantFrom, tc.wantTo)
			}
		})
	}
}
