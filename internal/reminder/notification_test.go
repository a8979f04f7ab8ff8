package reminder

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/duebot/internal/taskboard"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	due := time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		tasks []taskboard.Task
		loc   *time.Location
		want  Notification
	}{
		{
			name: "no tasks",
			want: Notification{Title: "Task reminder", Description: "No tasks due tomorrow 🎉", Color: ColorDarkGreen},
		},
		{
			name: "tasks in input order with notes",
			tasks: []taskboard.Task{
				{Title: "Report", Due: due},
				{Title: "Standup", Notes: "room 4", Due: due.Add(-time.Hour)},
			},
			loc: tokyo,
			want: Notification{
				Title:       "Task reminder",
				Description: "Here are tomorrow's tasks!",
				Color:       ColorRed,
				Fields: []Field{
					{Name: "Report", Value: "Due: Tue 10/20 10:00"},
					{Name: "Standup", Value: "Due: Tue 10/20 09:00\nroom 4"},
				},
			},
		},
		{
			name:  "nil location renders in UTC",
			tasks: []taskboard.Task{{Title: "Report", Due: due}},
			want: Notification{
				Title:       "Task reminder",
				Description: "Here are tomorrow's tasks!",
				Color:       ColorRed,
				Fields:      []Field{{Name: "Report", Value: "Due: Tue 10/20 01:00"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Render(tc.tasks, tc.loc)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
			if len(got.Fields) != len(tc.tasks) {
				t.Errorf("Render() produced %d fields for %d tasks", len(got.Fields), len(tc.tasks))
			}
		})
	}
}

func TestNotificationEqual(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	tasks := []taskboard.Task{{Title: "a", Due: due}, {Title: "b", Due: due}}

	a := Render(tasks, time.UTC)
	b := Render(tasks, time.UTC)
	c := Render(append([]taskboard.Task(nil), tasks...), time.UTC)
	empty := Render(nil, time.UTC)

	if !a.Equal(a) {
		t.Error("Equal is not reflexive")
	}
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("independent renderings of the same tasks differ")
	}
	if !a.Equal(b) || !b.Equal(c) || !a.Equal(c) {
		t.Error("Equal is not transitive")
	}
	if a.Equal(empty) || empty.Equal(a) {
		t.Error("tasks and no-tasks renderings compare equal")
	}

	variants := map[string]Notification{
		"title":       {Title: "x", Description: a.Description, Fields: a.Fields, Color: a.Color},
		"description": {Title: a.Title, Description: "x", Fields: a.Fields, Color: a.Color},
		"color":       {Title: a.Title, Description: a.Description, Fields: a.Fields, Color: ColorDarkGreen},
		"field order": {Title: a.Title, Description: a.Description, Fields: []Field{a.Fields[1], a.Fields[0]}, Color: a.Color},
		"field count": {Title: a.Title, Description: a.Description, Fields: a.Fields[:1], Color: a.Color},
	}
	for name, v := range variants {
		if a.Equal(v) {
			t.Errorf("Equal ignores a difference in %s", name)
		}
	}
}
