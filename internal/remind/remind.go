package remind

import (
	"fmt"
	"sort"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

// Reminder is one scheduled notification. Delivery is the platform's
// job; this package only plans what to say and when.
type Reminder struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// TaskReminder builds the reminder for a single task at the given time.
// The identifier is stable per task so rescheduling replaces rather than
// duplicates.
func TaskReminder(task models.Task, at time.Time) Reminder {
	return Reminder{
		ID:    fmt.Sprintf("task_reminder_%s", task.ID),
		Title: "Study reminder",
		Body:  fmt.Sprintf("Time to start %s (expected %d minutes)", task.Name, task.ExpectedMinutes),
		At:    at,
	}
}

// DailyReminder is the recurring start-of-day nudge.
func DailyReminder(at time.Time) Reminder {
	return Reminder{
		ID:    "daily_study_reminder",
		Title: "Daily study reminder",
		Body:  "Today's study plan is ready. Time to get started!",
		At:    at,
	}
}

// Plan lays out reminders for the day's pending tasks. Tasks are slotted
// back to back from studyStart, each reminder firing lead before its
// slot. Reminders already in the past relative to now are dropped.
func Plan(tasks []models.Task, day, now, studyStart time.Time, lead time.Duration) []Reminder {
	var todays []models.Task
	for _, t := range tasks {
		if t.Status == models.TaskStatusPending && models.SameDay(t.Date, day) {
			todays = append(todays, t)
		}
	}
	sort.SliceStable(todays, func(i, j int) bool {
		return todays[i].ExpectedMinutes > todays[j].ExpectedMinutes
	})

	var out []Reminder
	slot := studyStart
	for _, t := range todays {
		at := slot.Add(-lead)
		if at.After(now) {
			out = append(out, TaskReminder(t, at))
		}
		slot = slot.Add(time.Duration(t.ExpectedMinutes) * time.Minute)
	}
	return out
}
