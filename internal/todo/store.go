// Package todo holds the task list: an insertion-ordered collection that is
// loaded once from durable storage and written back after every change.
package todo

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pdxmph/focusboard/internal/clock"
)

// Store owns the task collection and its persistence.
type Store struct {
	storage Storage
	clock   clock.Clock
	logger  *slog.Logger
	tasks   []Task
	lastID  int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp new task identifiers.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the logger for load and persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty store backed by storage. Call Load to read the
// persisted collection.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		clock:   clock.Real{},
		logger:  slog.Default(),
		tasks:   []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted one. A missing value
// yields an empty list; an unreadable or malformed one is logged and also
// yields an empty list.
func (s *Store) Load() {
	s.tasks = []Task{}

	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("reading persisted tasks failed, starting empty", "key", StorageKey, "error", err)
		return
	}
	if !ok {
		s.logger.Debug("no persisted tasks", "key", StorageKey)
		return
	}

	tasks, err := Decode(raw)
	if err != nil {
		s.logger.Warn("failed to parse persisted tasks, starting empty", "key", StorageKey, "error", err)
		return
	}
	s.tasks = tasks
	s.restampDuplicates()
	s.logger.Debug("loaded tasks", "count", len(tasks))
}

// restampDuplicates gives every task after the first holder of an id a
// fresh one, so Toggle and Delete always address a single row. The change
// reaches storage with the next mutation.
func (s *Store) restampDuplicates() {
	seen := make(map[string]bool, len(s.tasks))
	for i := range s.tasks {
		id := s.tasks[i].ID
		if !seen[id] {
			seen[id] = true
			continue
		}
		s.tasks[i].ID = s.nextID()
		seen[s.tasks[i].ID] = true
		s.logger.Warn("duplicate task id in persisted tasks, assigned a new one",
			"id", id, "new_id", s.tasks[i].ID)
	}
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Remaining counts the tasks not yet completed.
func (s *Store) Remaining() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Add appends a new uncompleted task. Blank text is rejected and reported
// as unchanged. The returned error is a persistence failure only; the task
// is kept in memory regardless.
func (s *Store) Add(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	s.tasks = append(s.tasks, Task{
		ID:   s.nextID(),
		Text: text,
	})
	return true, s.persist()
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true, s.persist()
}

// Delete removes the task with the given id.
func (s *Store) Delete(id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, s.persist()
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID stamps a task with its creation time in Unix milliseconds, moving
// forward to the next free millisecond when that stamp is already taken.
func (s *Store) nextID() string {
	n := s.clock.Now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	for s.index(strconv.FormatInt(n, 10)) >= 0 {
		n++
	}
	s.lastID = n
	return strconv.FormatInt(n, 10)
}

func (s *Store) persist() error {
	data, err := Encode(s.tasks)
	if err != nil {
		s.logger.Error("encoding tasks failed", "error", err)
		return err
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Error("persisting tasks failed", "key", StorageKey, "error", err)
		return fmt.Errorf("persisting tasks: %w", err)
	}
	return nil
}

// Encode serializes tasks in the persisted format.
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted task list. A JSON null decodes to an empty list.
func Decode(raw string) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}
