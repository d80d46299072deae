package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status: %q", s)
}

type TaskCategory string

const (
	CategoryChinese TaskCategory = "chinese"
	CategoryMath    TaskCategory = "math"
	CategoryEnglish TaskCategory = "english"
	CategoryPiano   TaskCategory = "piano"
)

// Categories lists every valid category in display order.
func Categories() []TaskCategory {
	return []TaskCategory{CategoryChinese, CategoryMath, CategoryEnglish, CategoryPiano}
}

func ParseTaskCategory(s string) (TaskCategory, error) {
	switch TaskCategory(s) {
	case CategoryChinese, CategoryMath, CategoryEnglish, CategoryPiano:
		return TaskCategory(s), nil
	}
	return "", fmt.Errorf("unknown task category: %q", s)
}

// Task is one schedulable unit of study work for one day.
type Task struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Category        TaskCategory `json:"category"`
	ExpectedMinutes int          `json:"expected_minutes"`
	ActualMinutes   int          `json:"actual_minutes"`
	Date            time.Time    `json:"date"`
	Status          TaskStatus   `json:"status"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
	Note            string       `json:"note,omitempty"`
}

// Day truncates t to midnight in its own location. Tasks are keyed by
// calendar day, never by exact timestamp.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var (
	ErrEmptyName       = errors.New("task name is empty")
	ErrInvalidDuration = errors.New("expected duration must be positive")
	ErrInvalidRange    = errors.New("end date is before start date")
)

// NewTasks builds one pending task per calendar day in the closed interval
// [start, end]. A single-day task is the start == end case.
func NewTasks(name string, category TaskCategory, expectedMinutes int, start, end time.Time) ([]Task, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if expectedMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var tasks []Task
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		tasks = append(tasks, Task{
			ID:              uuid.New().String(),
			Name:            name,
			Category:        category,
			ExpectedMinutes: expectedMinutes,
			Date:            d,
			Status:          TaskStatusPending,
		})
	}
	return tasks, nil
}
