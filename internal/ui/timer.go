package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tom7523326/studyplan/internal/session"
	"github.com/tom7523326/studyplan/internal/store"
	"github.com/tom7523326/studyplan/pkg/models"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 3)

	taskNameStyle = lipgloss.NewStyle().Bold(true)

	taskMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	clockStyle = lipgloss.NewStyle().Bold(true)

	overtimeClockStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("9"))

	overtimeBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// TimerModel runs a countdown session for a single task. It never touches
// the store itself; RunTimer applies the outcome after the program exits.
type TimerModel struct {
	sess         session.Session
	completed    *models.Task
	overtimeSeen bool
	quitting     bool
}

func NewTimerModel(task models.Task, now time.Time) TimerModel {
	return TimerModel{sess: session.New(task).Start(now)}
}

func (m TimerModel) Init() tea.Cmd {
	return timerTick()
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.sess = m.sess.Tick()
		if m.sess.Overtime() {
			m.overtimeSeen = true
		}
		return m, timerTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			switch m.sess.State {
			case session.StateRunning:
				m.sess = m.sess.Pause()
			case session.StatePaused:
				m.sess = m.sess.Resume()
			}

		case "c":
			sess, task := m.sess.Complete(time.Now())
			m.sess = sess
			m.completed = &task
			m.quitting = true
			return m, tea.Quit

		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(taskNameStyle.Render(m.sess.Task.Name))
	s.WriteString("\n")
	s.WriteString(taskMetaStyle.Render(fmt.Sprintf("%s, expected %d min", m.sess.Task.Category, m.sess.Task.ExpectedMinutes)))
	s.WriteString("\n\n")

	if m.sess.Overtime() {
		s.WriteString(overtimeClockStyle.Render(m.sess.Clock()))
	} else {
		s.WriteString(clockStyle.Render(m.sess.Clock()))
	}

	if m.sess.State == session.StatePaused {
		s.WriteString(pausedStyle.Render("  [paused]"))
	}
	s.WriteString("\n")

	if m.overtimeSeen {
		s.WriteString(overtimeBannerStyle.Render(fmt.Sprintf("Time is up! %d min over", m.sess.OvertimeMinutes())))
		s.WriteString("\n")
	} else {
		remaining := m.sess.RemainingSeconds()
		s.WriteString(taskMetaStyle.Render(fmt.Sprintf("%02d:%02d remaining", remaining/60, remaining%60)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(hintStyle.Render("(p pause/resume, c complete, q quit)"))
	s.WriteString("\n")

	return cardStyle.Render(s.String())
}

// Completed reports the finished task, if the session was completed.
func (m TimerModel) Completed() (models.Task, bool) {
	if m.completed == nil {
		return models.Task{}, false
	}
	return *m.completed, true
}

// RunTimer starts a session for the task, marks it in progress, and runs the
// timer program. A completed session is written back to the store; quitting
// early leaves the task in progress.
func RunTimer(ctx context.Context, s *store.Store, task models.Task) (models.Task, bool, error) {
	m := NewTimerModel(task, time.Now())
	s.UpdateTask(ctx, m.sess.Task)

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return task, false, err
	}

	fm := finalModel.(TimerModel)
	done, ok := fm.Completed()
	if !ok {
		return fm.sess.Task, false, nil
	}
	s.UpdateTask(ctx, done)
	return done, true, nil
}
