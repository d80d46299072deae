package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tom7523326/studyplan/internal/db"
	"github.com/tom7523326/studyplan/pkg/models"
)

const tasksKey = "tasks"

// Store is the single source of truth for the task collection. The
// in-memory slice is authoritative; every mutation ends with an explicit
// best-effort persist into key-value storage. Reads immediately after a
// write always see memory, never disk.
type Store struct {
	db       *db.DB
	tasks    []models.Task
	onChange func()
}

// Open loads the store: the seed set is regenerated from cfg and any
// persisted progress is overlaid onto it. Persistence read failures are
// treated as "no saved state".
func Open(ctx context.Context, database *db.DB, cfg SeedConfig) (*Store, error) {
	if err := database.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	s := &Store{db: database}
	seed := GenerateSeed(cfg)
	s.tasks = Reconcile(seed, s.loadPersisted(ctx))
	return s, nil
}

func (s *Store) loadPersisted(ctx context.Context) []models.Task {
	data, err := s.db.Get(ctx, tasksKey)
	if err != nil || data == nil {
		return nil
	}
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}

// persist writes the full collection as one JSON array under one key.
// Failures are logged and swallowed: the running session keeps working
// off memory regardless.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to encode tasks: %v\n", err)
		return
	}
	if err := s.db.Put(ctx, tasksKey, data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist tasks: %v\n", err)
	}
}

// SetOnChange registers a callback fired after every successful mutation.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Store) triggerChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// All returns a copy of the collection.
func (s *Store) All() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksFor returns all tasks scheduled on the given calendar day.
func (s *Store) TasksFor(date time.Time) []models.Task {
	var out []models.Task
	for _, t := range s.tasks {
		if models.SameDay(t.Date, date) {
			out = append(out, t)
		}
	}
	return out
}

// AddTask appends the task. Uniqueness of the id is the caller's job.
func (s *Store) AddTask(ctx context.Context, t models.Task) {
	t.Date = models.Day(t.Date)
	s.tasks = append(s.tasks, t)
	s.persist(ctx)
	s.triggerChange()
}

// UpdateTask replaces the entry matching t.ID. An unknown id is silently
// ignored, not an error.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			t.Date = models.Day(t.Date)
			s.tasks[i] = t
			s.persist(ctx)
			s.triggerChange()
			return
		}
	}
}

// DeleteTask removes all entries matching the id.
func (s *Store) DeleteTask(ctx context.Context, id string) {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		return
	}
	s.tasks = kept
	s.persist(ctx)
	s.triggerChange()
}

// ImportTasks merges the incoming list: unknown ids append, known ids
// overwrite in place. Importing the same list twice yields the same
// collection as importing it once.
func (s *Store) ImportTasks(ctx context.Context, incoming []models.Task) {
	index := make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		index[t.ID] = i
	}
	for _, t := range incoming {
		t.Date = models.Day(t.Date)
		if i, ok := index[t.ID]; ok {
			s.tasks[i] = t
		} else {
			index[t.ID] = len(s.tasks)
			s.tasks = append(s.tasks, t)
		}
	}
	s.persist(ctx)
	s.triggerChange()
}

// ClearAllTasks empties the collection.
func (s *Store) ClearAllTasks(ctx context.Context) {
	s.tasks = nil
	s.persist(ctx)
	s.triggerChange()
}
