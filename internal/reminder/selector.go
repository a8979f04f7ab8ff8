package reminder

import (
	"sort"
	"time"

	"github.com/edgard/duebot/internal/taskboard"
)

// SelectDue returns the tasks with from < due <= to, ordered by due time.
// Tasks sharing a due time keep their relative order.
func SelectDue(tasks []taskboard.Task, from, to time.Time) []taskboard.Task {
	selected := make([]taskboard.Task, 0, len(tasks))
	for _, t := range tasks {
		if from.Before(t.Due) && !t.Due.After(to) {
			selected = append(selected, t)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Due.Before(selected[j].Due)
	})
	return selected
}

// startOfDay returns midnight of the day offset by days from t's date in loc.
func startOfDay(t time.Time, days int, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+days, 0, 0, 0, 0, loc)
}

// tomorrowWindow returns the (from, to] window covering the day after t.
func tomorrowWindow(t time.Time, loc *time.Location) (from, to time.Time) {
	return startOfDay(t, 1, loc), startOfDay(t, 2, loc)
}
