package reminder

import (
	"time"

	"github.com/edgard/duebot/internal/taskboard"
)

// Color is an RGB color marker attached to a notification.
type Color int

const (
	ColorRed       Color = 0xE74C3C
	ColorDarkGreen Color = 0x1F8B4C
)

const (
	notificationTitle  = "Task reminder"
	tasksDescription   = "Here are tomorrow's tasks!"
	noTasksDescription = "No tasks due tomorrow 🎉"

	dueLayout = "Mon 01/02 15:04"
)

// Field is a single name/value entry of a notification.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notification is the structured body of a reminder message. Two
// notifications describe the same reminder iff Equal reports true.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields,omitempty"`
	Color       Color   `json:"color"`
}

// HasTasks reports whether the notification lists any task.
func (n Notification) HasTasks() bool {
	return len(n.Fields) > 0
}

// Equal compares two notifications field by field.
func (n Notification) Equal(other Notification) bool {
	if n.Title != other.Title || n.Description != other.Description || n.Color != other.Color {
		return false
	}
	if len(n.Fields) != len(other.Fields) {
		return false
	}
	for i := range n.Fields {
		if n.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// Render builds the notification for tasks, keeping their order. Due times
// are shown in loc (UTC when nil).
func Render(tasks []taskboard.Task, loc *time.Location) Notification {
	if len(tasks) == 0 {
		return Notification{
			Title:       notificationTitle,
			Description: noTasksDescription,
			Color:       ColorDarkGreen,
		}
	}

	if loc == nil {
		loc = time.UTC
	}

	fields := make([]Field, 0, len(tasks))
	for _, t := range tasks {
		fields = append(fields, taskField(t, loc))
	}

	return Notification{
		Title:       notificationTitle,
		Description: tasksDescription,
		Fields:      fields,
		Color:       ColorRed,
	}
}

func taskField(t taskboard.Task, loc *time.Location) Field {
	value := "Due: " + t.Due.In(loc).Format(dueLayout)
	if t.Notes != "" {
		value += "\n" + t.Notes
	}
	return Field{Name: t.Title, Value: value}
}
