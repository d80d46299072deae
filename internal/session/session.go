package session

import (
	"fmt"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Session tracks elapsed wall-clock time for one active task. It is a
// plain value: the periodic tick source belongs to the caller, the
// session only interprets ticks. Dropping a session without calling
// Complete abandons it; no task mutation ever happens inside.
type Session struct {
	Task           models.Task
	State          State
	ElapsedSeconds int
}

func New(task models.Task) Session {
	return Session{Task: task, State: StateIdle}
}

// Start moves an idle session to running and stamps the task's start
// time. The stamp is never retroactively altered.
func (s Session) Start(now time.Time) Session {
	if s.State != StateIdle {
		return s
	}
	s.State = StateRunning
	if s.Task.StartedAt == nil {
		s.Task.StartedAt = &now
	}
	s.Task.Status = models.TaskStatusInProgress
	return s
}

// Tick accounts one elapsed second. Paused and non-running sessions
// absorb the tick without effect: pause suppresses the increment, not
// the tick source.
func (s Session) Tick() Session {
	if s.State == StateRunning {
		s.ElapsedSeconds++
	}
	return s
}

func (s Session) Pause() Session {
	if s.State == StateRunning {
		s.State = StatePaused
	}
	return s
}

func (s Session) Resume() Session {
	if s.State == StatePaused {
		s.State = StateRunning
	}
	return s
}

// Overtime reports whether elapsed time exceeds the expected duration.
func (s Session) Overtime() bool {
	return s.ElapsedSeconds/60 > s.Task.ExpectedMinutes
}

// OvertimeMinutes is how many whole minutes past the expected duration
// the session has run, clamped at zero.
func (s Session) OvertimeMinutes() int {
	over := s.ElapsedSeconds/60 - s.Task.ExpectedMinutes
	if over < 0 {
		return 0
	}
	return over
}

// RemainingSeconds is the time left before the expected duration runs
// out, clamped at zero.
func (s Session) RemainingSeconds() int {
	remaining := s.Task.ExpectedMinutes*60 - s.ElapsedSeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Clock renders elapsed time as MM:SS.
func (s Session) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.ElapsedSeconds/60, s.ElapsedSeconds%60)
}

// Complete finalizes the session: the task is marked completed with the
// accumulated minutes (floor of elapsed seconds / 60). This is the only
// session path that writes ActualMinutes. The returned task is the
// caller's to hand to the store.
func (s Session) Complete(now time.Time) (Session, models.Task) {
	if s.State == StateCompleted {
		return s, s.Task
	}
	s.State = StateCompleted
	s.Task.Status = models.TaskStatusCompleted
	s.Task.ActualMinutes = s.ElapsedSeconds / 60
	s.Task.CompletedAt = &now
	return s, s.Task
}
