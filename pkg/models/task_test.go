package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewTasksRange(t *testing.T) {
	start := time.Date(2025, 7, 12, 9, 30, 0, 0, time.Local)
	end := time.Date(2025, 7, 18, 23, 0, 0, 0, time.Local)

	tasks, err := NewTasks("Reading", CategoryChinese, 40, start, end)
	if err != nil {
		t.Fatalf("NewTasks failed: %v", err)
	}
	if len(tasks) != 7 {
		t.Fatalf("expected 7 tasks, got %d", len(tasks))
	}

	seen := map[string]bool{}
	for i, task := range tasks {
		if task.Status != TaskStatusPending {
			t.Errorf("task %d: expected status pending, got %s", i, task.Status)
		}
		if task.ActualMinutes != 0 {
			t.Errorf("task %d: expected actual minutes 0, got %d", i, task.ActualMinutes)
		}
		if !task.Date.Equal(Day(task.Date)) {
			t.Errorf("task %d: date %v not normalized to midnight", i, task.Date)
		}
		if seen[task.ID] {
			t.Errorf("task %d: duplicate id %s", i, task.ID)
		}
		seen[task.ID] = true
	}

	want := Day(start)
	for i, task := range tasks {
		if !task.Date.Equal(want) {
			t.Errorf("task %d: expected date %v, got %v", i, want, task.Date)
		}
		want = want.AddDate(0, 0, 1)
	}
}

func TestNewTasksSingleDay(t *testing.T) {
	day := time.Date(2025, 7, 12, 0, 0, 0, 0, time.Local)
	tasks, err := NewTasks("Dictation", CategoryEnglish, 10, day, day)
	if err != nil {
		t.Fatalf("NewTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
}

func TestNewTasksValidation(t *testing.T) {
	day := time.Now()

	if _, err := NewTasks("", CategoryMath, 10, day, day); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := NewTasks("Math drills", CategoryMath, 0, day, day); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := NewTasks("Math drills", CategoryMath, 10, day, day.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 7, 12, 0, 0, 1, 0, time.Local)
	b := time.Date(2025, 7, 12, 23, 59, 59, 0, time.Local)
	c := time.Date(2025, 7, 13, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Error("expected a and b to share a calendar day")
	}
	if SameDay(b, c) {
		t.Error("expected b and c to be different days")
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseTaskStatus("in_progress"); err != nil {
		t.Errorf("ParseTaskStatus failed: %v", err)
	}
	if _, err := ParseTaskStatus("blocked"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseTaskCategory("piano"); err != nil {
		t.Errorf("ParseTaskCategory failed: %v", err)
	}
	if _, err := ParseTaskCategory("history"); err == nil {
		t.Error("expected error for unknown category")
	}
}
