package session

import (
	"testing"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

func newTask(expected int) models.Task {
	return models.Task{
		ID:              "t1",
		Name:            "Reading",
		Category:        models.CategoryChinese,
		ExpectedMinutes: expected,
		Date:            time.Date(2025, 7, 14, 0, 0, 0, 0, time.Local),
		Status:          models.TaskStatusPending,
	}
}

func TestStart(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.Local)
	s := New(newTask(25)).Start(now)

	if s.State != StateRunning {
		t.Fatalf("expected running, got %s", s.State)
	}
	if s.Task.Status != models.TaskStatusInProgress {
		t.Errorf("expected in_progress task, got %s", s.Task.Status)
	}
	if s.Task.StartedAt == nil || !s.Task.StartedAt.Equal(now) {
		t.Errorf("expected start time %v, got %v", now, s.Task.StartedAt)
	}

	// Start is not retroactive: a second start keeps the original stamp.
	later := now.Add(time.Hour)
	again := s.Start(later)
	if !again.Task.StartedAt.Equal(now) {
		t.Errorf("start time was retroactively altered to %v", again.Task.StartedAt)
	}
}

func TestTickOnlyWhileRunning(t *testing.T) {
	now := time.Now()
	s := New(newTask(25))

	s = s.Tick()
	if s.ElapsedSeconds != 0 {
		t.Errorf("idle tick counted, elapsed %d", s.ElapsedSeconds)
	}

	s = s.Start(now)
	for i := 0; i < 5; i++ {
		s = s.Tick()
	}
	if s.ElapsedSeconds != 5 {
		t.Errorf("expected 5 elapsed seconds, got %d", s.ElapsedSeconds)
	}

	s = s.Pause()
	s = s.Tick()
	s = s.Tick()
	if s.ElapsedSeconds != 5 {
		t.Errorf("paused ticks counted, elapsed %d", s.ElapsedSeconds)
	}

	s = s.Resume()
	s = s.Tick()
	if s.ElapsedSeconds != 6 {
		t.Errorf("expected 6 elapsed seconds after resume, got %d", s.ElapsedSeconds)
	}
}

func TestOvertime(t *testing.T) {
	s := New(newTask(25)).Start(time.Now())

	s.ElapsedSeconds = 25 * 60
	if s.Overtime() {
		t.Error("expected no overtime at exactly the expected duration")
	}
	if s.RemainingSeconds() != 0 {
		t.Errorf("expected 0 remaining seconds, got %d", s.RemainingSeconds())
	}

	s.ElapsedSeconds = 1800 // 30 minutes
	if !s.Overtime() {
		t.Error("expected overtime at 30 of 25 minutes")
	}
	if s.OvertimeMinutes() != 5 {
		t.Errorf("expected 5 overtime minutes, got %d", s.OvertimeMinutes())
	}
	if s.RemainingSeconds() != 0 {
		t.Errorf("expected remaining clamped to 0, got %d", s.RemainingSeconds())
	}
}

func TestComplete(t *testing.T) {
	start := time.Date(2025, 7, 14, 9, 0, 0, 0, time.Local)
	end := start.Add(30 * time.Minute)

	s := New(newTask(25)).Start(start)
	s.ElapsedSeconds = 1800

	s, task := s.Complete(end)
	if s.State != StateCompleted {
		t.Fatalf("expected completed state, got %s", s.State)
	}
	if task.Status != models.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", task.Status)
	}
	if task.ActualMinutes != 30 {
		t.Errorf("expected 30 actual minutes, got %d", task.ActualMinutes)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(end) {
		t.Errorf("expected completion time %v, got %v", end, task.CompletedAt)
	}
}

func TestCompleteFloorsPartialMinute(t *testing.T) {
	s := New(newTask(25)).Start(time.Now())
	s.ElapsedSeconds = 119

	_, task := s.Complete(time.Now())
	if task.ActualMinutes != 1 {
		t.Errorf("expected floor division to 1 minute, got %d", task.ActualMinutes)
	}
}

func TestCompleteFromIdle(t *testing.T) {
	_, task := New(newTask(25)).Complete(time.Now())
	if task.Status != models.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", task.Status)
	}
	if task.ActualMinutes != 0 {
		t.Errorf("expected 0 actual minutes from idle completion, got %d", task.ActualMinutes)
	}
}

func TestClock(t *testing.T) {
	s := New(newTask(25))
	s.ElapsedSeconds = 605
	if got := s.Clock(); got != "10:05" {
		t.Errorf("expected 10:05, got %s", got)
	}
}
