package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

// Scope is a date-range filter applied to statistics queries.
type Scope string

const (
	ScopeWeek  Scope = "week"
	ScopeMonth Scope = "month"
	ScopeAll   Scope = "all"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeWeek, ScopeMonth, ScopeAll:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope: %q", s)
}

// AllDates returns the sorted distinct calendar days with at least one task.
func AllDates(tasks []models.Task) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, t := range tasks {
		d := models.Day(t.Date)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// weekStart returns the Monday of the calendar week containing t.
func weekStart(t time.Time) time.Time {
	d := models.Day(t)
	shift := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -shift)
}

// FilteredDates returns the distinct dates present in the collection that
// fall inside the scope: week is Monday through Sunday of now's week,
// month is the first of now's month through now, all is everything.
func FilteredDates(scope Scope, tasks []models.Task, now time.Time) []time.Time {
	dates := AllDates(tasks)
	switch scope {
	case ScopeWeek:
		start := weekStart(now)
		end := start.AddDate(0, 0, 7)
		return filterDates(dates, func(d time.Time) bool {
			return !d.Before(start) && d.Before(end)
		})
	case ScopeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		today := models.Day(now)
		return filterDates(dates, func(d time.Time) bool {
			return !d.Before(start) && !d.After(today)
		})
	default:
		return dates
	}
}

func filterDates(dates []time.Time, keep func(time.Time) bool) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// scopedTasks returns the tasks whose date falls on one of the scoped days.
func scopedTasks(scope Scope, tasks []models.Task, now time.Time) []models.Task {
	in := make(map[time.Time]bool)
	for _, d := range FilteredDates(scope, tasks, now) {
		in[d] = true
	}
	var out []models.Task
	for _, t := range tasks {
		if in[models.Day(t.Date)] {
			out = append(out, t)
		}
	}
	return out
}

// TotalMinutes sums actual minutes over the scoped tasks.
func TotalMinutes(scope Scope, tasks []models.Task, now time.Time) int {
	total := 0
	for _, t := range scopedTasks(scope, tasks, now) {
		total += t.ActualMinutes
	}
	return total
}

// CountByStatus counts scoped tasks grouped by status.
func CountByStatus(scope Scope, tasks []models.Task, now time.Time) map[models.TaskStatus]int {
	counts := make(map[models.TaskStatus]int)
	for _, t := range scopedTasks(scope, tasks, now) {
		counts[t.Status]++
	}
	return counts
}

func CompletedCount(scope Scope, tasks []models.Task, now time.Time) int {
	return CountByStatus(scope, tasks, now)[models.TaskStatusCompleted]
}

func InProgressCount(scope Scope, tasks []models.Task, now time.Time) int {
	return CountByStatus(scope, tasks, now)[models.TaskStatusInProgress]
}

func PendingCount(scope Scope, tasks []models.Task, now time.Time) int {
	return CountByStatus(scope, tasks, now)[models.TaskStatusPending]
}

// isPerfectDay reports whether the day has at least one task and every
// task on it is completed.
func isPerfectDay(tasks []models.Task, day time.Time) bool {
	found := false
	for _, t := range tasks {
		if !models.SameDay(t.Date, day) {
			continue
		}
		found = true
		if t.Status != models.TaskStatusCompleted {
			return false
		}
	}
	return found
}

// PerfectDays returns every perfect day in the full historical date list.
func PerfectDays(tasks []models.Task) []time.Time {
	var out []time.Time
	for _, d := range AllDates(tasks) {
		if isPerfectDay(tasks, d) {
			out = append(out, d)
		}
	}
	return out
}

// MaxStreak is the longest run of consecutive entries in the full sorted
// date list that are all perfect days. It deliberately ignores scope:
// the streak is always the longest historical one.
func MaxStreak(tasks []models.Task) int {
	maxStreak, current := 0, 0
	for _, d := range AllDates(tasks) {
		if isPerfectDay(tasks, d) {
			current++
			if current > maxStreak {
				maxStreak = current
			}
		} else {
			current = 0
		}
	}
	return maxStreak
}

// SubjectTotal is one category's share of scoped study time.
type SubjectTotal struct {
	Category models.TaskCategory `json:"category"`
	Minutes  int                 `json:"minutes"`
	Percent  float64             `json:"percent"`
}

// SubjectMinutes groups scoped tasks by category and sums actual minutes,
// sorted descending. Categories without scoped tasks are omitted. With a
// zero total every percentage is 0, never NaN.
func SubjectMinutes(scope Scope, tasks []models.Task, now time.Time) []SubjectTotal {
	minutes := make(map[models.TaskCategory]int)
	for _, t := range scopedTasks(scope, tasks, now) {
		minutes[t.Category] += t.ActualMinutes
	}

	total := 0
	for _, m := range minutes {
		total += m
	}

	out := make([]SubjectTotal, 0, len(minutes))
	for _, cat := range models.Categories() {
		m, ok := minutes[cat]
		if !ok {
			continue
		}
		pct := 0.0
		if total > 0 {
			pct = float64(m) * 100 / float64(total)
		}
		out = append(out, SubjectTotal{Category: cat, Minutes: m, Percent: pct})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minutes > out[j].Minutes })
	return out
}

// DailyProgress is one row of the per-day breakdown.
type DailyProgress struct {
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Minutes   int       `json:"minutes"`
	Percent   int       `json:"percent"`
}

// Summary is the aggregate view the CLI and web dashboard render.
type Summary struct {
	Scope         Scope           `json:"scope"`
	TotalMinutes  int             `json:"total_minutes"`
	Completed     int             `json:"completed"`
	InProgress    int             `json:"in_progress"`
	Pending       int             `json:"pending"`
	StudyDays     int             `json:"study_days"`
	PerfectDays   int             `json:"perfect_days"`
	MaxStreak     int             `json:"max_streak"`
	Subjects      []SubjectTotal  `json:"subjects"`
	DailyProgress []DailyProgress `json:"daily_progress"`
}

func Summarize(scope Scope, tasks []models.Task, now time.Time) Summary {
	counts := CountByStatus(scope, tasks, now)
	dates := FilteredDates(scope, tasks, now)

	daily := make([]DailyProgress, 0, len(dates))
	for _, d := range dates {
		row := DailyProgress{Date: d}
		for _, t := range tasks {
			if !models.SameDay(t.Date, d) {
				continue
			}
			row.Total++
			row.Minutes += t.ActualMinutes
			if t.Status == models.TaskStatusCompleted {
				row.Completed++
			}
		}
		if row.Total > 0 {
			row.Percent = row.Completed * 100 / row.Total
		}
		daily = append(daily, row)
	}

	return Summary{
		Scope:         scope,
		TotalMinutes:  TotalMinutes(scope, tasks, now),
		Completed:     counts[models.TaskStatusCompleted],
		InProgress:    counts[models.TaskStatusInProgress],
		Pending:       counts[models.TaskStatusPending],
		StudyDays:     len(dates),
		PerfectDays:   len(PerfectDays(tasks)),
		MaxStreak:     MaxStreak(tasks),
		Subjects:      SubjectMinutes(scope, tasks, now),
		DailyProgress: daily,
	}
}
