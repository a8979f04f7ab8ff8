package telegram

import (
	"fmt"
	"strings"
	"testing"

	"github.com/edgard/duebot/internal/reminder"
)

func TestFormatMessage(t *testing.T) {
	t.Parallel()

	tasks := &reminder.Notification{
		Title:       "Task reminder",
		Description: "Here are tomorrow's tasks!",
		Color:       reminder.ColorRed,
		Fields: []reminder.Field{
			{Name: "Fix <parser>", Value: "Due: Tue 10/20 10:00\nA & B"},
		},
	}
	empty := &reminder.Notification{Title: "Task reminder", Description: "No tasks due tomorrow 🎉", Color: reminder.ColorDarkGreen}

	tests := []struct {
		name         string
		content      string
		notification *reminder.Notification
		want         string
	}{
		{
			name:         "mention with tasks",
			content:      "@oncall",
			notification: tasks,
			want: "@oncall\n\n🔴 <b>Task reminder</b>\nHere are tomorrow&#39;s tasks!" +
				"\n\n<b>Fix &lt;parser&gt;</b>\nDue: Tue 10/20 10:00\nA &amp; B",
		},
		{
			name:         "no content",
			notification: empty,
			want:         "🟢 <b>Task reminder</b>\nNo tasks due tomorrow 🎉",
		},
		{
			name:    "content only",
			content: "@oncall\nThere are updates!",
			want:    "@oncall\nThere are updates!",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatMessage(tc.content, tc.notification); got != tc.want {
				t.Errorf("FormatMessage() =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestFormatMessageLengthLimit(t *testing.T) {
	t.Parallel()

	n := reminder.Notification{Title: "Task reminder", Description: "Here are tomorrow's tasks!", Color: reminder.ColorRed}
	for i := range 200 {
		n.Fields = append(n.Fields, reminder.Field{
			Name:  fmt.Sprintf("Task %03d 📌", i),
			Value: "Due: Tue 10/20 10:00\n" + strings.Repeat("notes & more ", 3),
		})
	}

	got := FormatMessage("@oncall", &n)
	if l := textLength(got); l > maxMessageLength {
		t.Fatalf("FormatMessage() length = %d, want at most %d", l, maxMessageLength)
	}

	shown := strings.Count(got, "<b>Task ")
	if shown == 0 || shown == len(n.Fields) {
		t.Fatalf("FormatMessage() shows %d of %d fields, want a truncated list", shown, len(n.Fields))
	}
	if want := fmt.Sprintf("<i>+%d more</i>", len(n.Fields)-shown); !strings.HasSuffix(got, want) {
		t.Errorf("FormatMessage() ends with %q, want suffix %q", got[len(got)-40:], want)
	}
	if !strings.Contains(got, "<b>Task 000 📌</b>") {
		t.Error("FormatMessage() dropped the earliest task")
	}

	short := reminder.Notification{Title: "Task reminder", Fields: n.Fields[:3]}
	if got := FormatMessage("", &short); got != FormatNotification(short) {
		t.Errorf("FormatMessage() changed a message under the limit:\n%q", got)
	}
}

func TestTextLength(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":    0,
		"abc": 3,
		"é":   1,
		"🎉":   2,
		"a🔴b": 4,
	}
	for in, want := range tests {
		if got := textLength(in); got != want {
			t.Errorf("textLength(%q) = %d, want %d", in, got, want)
		}
	}
}
