package task

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/calvinalkan/taskcal/internal/kv"
)

// StorageKey is the key the serialized collection lives under.
const StorageKey = "todos"

// Store is the authoritative in-memory task collection. Every mutation is
// written through to its [kv.Storage] before returning.
//
// A Store is not safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	storage kv.Storage
	tasks   []Task
	now     func() time.Time
	newID   func() (ID, error)
}

// Option configures a [Store].
type Option func(*Store)

// WithClock sets the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the id generator used by [Store.Add].
func WithIDGenerator(gen func() (ID, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// Open loads the collection from storage. A missing key yields an empty store.
func Open(storage kv.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		now:     time.Now,
		newID:   newUUIDv7,
	}

	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	if !ok || raw == "" {
		return s, nil
	}

	tasks, err := Decode([]byte(raw))
	if err != nil {
		return nil, err
	}

	s.tasks = tasks

	return s, nil
}

// Decode parses a serialized collection and checks the record invariants.
func Decode(data []byte) ([]Task, error) {
	var tasks []Task

	err := json.Unmarshal(data, &tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}

	seen := make(map[ID]struct{}, len(tasks))

	for i, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrCorruptData, i)
		}

		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrCorruptData, t.ID)
		}

		seen[t.ID] = struct{}{}
	}

	return tasks, nil
}

// Encode serializes tasks in the stored wire format.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}

	return json.Marshal(tasks)
}

// Add creates a task and returns its id. A [*PersistenceError] is returned
// together with the id when the task was added but could not be saved.
func (s *Store) Add(text, date string) (ID, error) {
	text, date, err := normalizeFields(text, date)
	if err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("add task: %w", err)
	}

	if s.index(id) >= 0 {
		return "", fmt.Errorf("add task: generated id %s already in use", id)
	}

	s.tasks = append(s.tasks, Task{
		ID:        id,
		Text:      text,
		Date:      date,
		CreatedAt: s.now().UTC(),
	})

	return id, s.persist("add")
}

// Update replaces text and date of the task with id.
func (s *Store) Update(id ID, text, date string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	text, date, err := normalizeFields(text, date)
	if err != nil {
		return err
	}

	s.tasks[i].Text = text
	s.tasks[i].Date = date

	return s.persist("update")
}

// ToggleComplete flips the completed flag of the task with id.
func (s *Store) ToggleComplete(id ID) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.tasks[i].Completed = !s.tasks[i].Completed

	return s.persist("toggle")
}

// Delete removes the task with id. Deleting an absent id is a no-op but the
// collection is still written, so storage converges on memory.
func (s *Store) Delete(id ID) error {
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.ID == id })

	return s.persist("delete")
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Task {
	return slices.Clone(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id ID) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}

	return s.tasks[i], true
}

// OnDate returns the tasks dated date, in insertion order.
func (s *Store) OnDate(date string) []Task {
	return Tasks(s.tasks).OnDate(date)
}

func (s *Store) index(id ID) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) persist(op string) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}

	err = s.storage.Set(StorageKey, string(data))
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}

	return nil
}
