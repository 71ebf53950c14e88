// Package todo owns the todo collection of the logged-in user.
package todo

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/storage"
	"github.com/manav03panchal/taskflow/internal/validate"
)

// CorruptSuffix is appended to a collection key to quarantine an unreadable blob.
const CorruptSuffix = ".corrupt"

// Store holds one user's todos, newest first. Every mutation is written
// through to storage before it returns; a failed write leaves the
// in-memory collection unchanged.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	now    func() time.Time
	userID string
	loaded bool
	todos  []model.Todo
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps, ids and filters.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an unloaded store.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads userID's collection, seeding the sample todos when none is stored.
func (s *Store) Load(userID string) error {
	if userID == "" {
		return errors.NewValidationError("user", "user id is required")
	}
	key := model.TodosKey(userID)
	logger := logging.With(logging.KeyUser, userID)

	raw, err := s.kv.Get(key)
	var todos []model.Todo
	switch {
	case storage.IsErrKeyNotFound(err):
		todos = sampleTodos(s.now())
		if err := s.write(key, todos); err != nil {
			return err
		}
		logger.Info("seeded sample todos", logging.KeyCount, len(todos))
	case err != nil:
		return err
	default:
		var clean bool
		todos, clean = decodeCollection(raw)
		if !clean {
			if err := s.kv.Set(key+CorruptSuffix, raw); err != nil {
				return err
			}
			if err := s.write(key, todos); err != nil {
				return err
			}
			logger.Warn("quarantined unreadable todos",
				logging.KeyKey, key+CorruptSuffix,
				logging.KeyCount, len(todos),
			)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.todos = todos
	s.loaded = true
	logger.Debug("todos loaded", logging.KeyCount, len(todos))
	return nil
}

// decodeCollection parses a stored collection. Records that fail validation
// or repeat an id are dropped; clean is false if anything was dropped or the
// blob could not be parsed at all.
func decodeCollection(raw string) (todos []model.Todo, clean bool) {
	var parsed []model.Todo
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []model.Todo{}, false
	}

	clean = true
	seen := make(map[string]bool, len(parsed))
	todos = make([]model.Todo, 0, len(parsed))
	for _, t := range parsed {
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Category == "" {
			t.Category = model.CategoryPersonal
		}
		if err := t.Validate(); err != nil || seen[t.ID] {
			clean = false
			continue
		}
		seen[t.ID] = true
		todos = append(todos, t)
	}
	return todos, clean
}

// Unload forgets the in-memory collection without touching storage.
func (s *Store) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.todos = nil
	s.loaded = false
}

// Discard deletes userID's persisted collection, including any quarantined
// blob, and unloads it if current.
func (s *Store) Discard(userID string) error {
	key := model.TodosKey(userID)
	for _, k := range []string{key, key + CorruptSuffix} {
		if err := s.kv.Remove(k); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == userID {
		s.userID = ""
		s.todos = nil
		s.loaded = false
	}
	logging.DebugLog("todos discarded", logging.KeyUser, userID)
	return nil
}

// Loaded reports whether a collection is loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// UserID returns the owner of the loaded collection.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Add creates a todo at the head of the collection.
func (s *Store) Add(in model.TodoInput) (model.Todo, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Category == "" {
		in.Category = model.CategoryPersonal
	}
	if err := validateInput(in); err != nil {
		return model.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return model.Todo{}, errors.ErrNotLoaded
	}

	now := s.now()
	t := model.Todo{
		ID:          s.nextID(now),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    in.Priority,
		Category:    in.Category,
		DueDate:     copyTime(in.DueDate),
		Reminder:    copyTime(in.Reminder),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, t)
	next = append(next, s.todos...)
	if err := s.commit(next); err != nil {
		return model.Todo{}, err
	}

	logging.DebugLog("todo added", logging.KeyTodo, t.ID)
	return t.Clone(), nil
}

// nextID derives an id from the creation time, bumped past any collision.
// Callers hold s.mu.
func (s *Store) nextID(now time.Time) string {
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if s.indexOf(id) < 0 {
			return id
		}
		n++
	}
}

// Update merges patch onto the todo with id. A missing id is a no-op.
func (s *Store) Update(id string, patch model.TodoPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	return s.mutate(id, func(t *model.Todo) {
		patch.Apply(t)
	})
}

// ToggleComplete flips the completed flag. A missing id is a no-op.
func (s *Store) ToggleComplete(id string) error {
	return s.mutate(id, func(t *model.Todo) {
		t.Completed = !t.Completed
	})
}

func (s *Store) mutate(id string, fn func(*model.Todo)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	next := cloneAll(s.todos)
	fn(&next[i])
	next[i].UpdatedAt = s.now()
	if next[i].UpdatedAt.Before(next[i].CreatedAt) {
		next[i].UpdatedAt = next[i].CreatedAt
	}
	if err := s.commit(next); err != nil {
		return err
	}

	logging.DebugLog("todo updated", logging.KeyTodo, id)
	return nil
}

// Remove deletes the todo with id. A missing id is a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	next := make([]model.Todo, 0, len(s.todos)-1)
	next = append(next, s.todos[:i]...)
	next = append(next, s.todos[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}

	logging.DebugLog("todo removed", logging.KeyTodo, id)
	return nil
}

// Get returns a copy of the todo with id.
func (s *Store) Get(id string) (model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return model.Todo{}, errors.ErrNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, errors.ErrTodoNotFound
	}
	return s.todos[i].Clone(), nil
}

// Snapshot returns a deep copy of the whole collection.
func (s *Store) Snapshot() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.todos)
}

// Filtered returns the todos in the view named by f.
func (s *Store) Filtered(f model.Filter) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(s.todos, f, s.now())
}

// Search returns the todos in the view named by f whose title or
// description contains query.
func (s *Store) Search(f model.Filter, query string) []model.Todo {
	view := s.Filtered(f)
	if strings.TrimSpace(query) == "" {
		return view
	}
	out := view[:0]
	for i := range view {
		if MatchesQuery(&view[i], query) {
			out = append(out, view[i])
		}
	}
	return out
}

// Counts returns the size of every named view.
func (s *Store) Counts() map[model.Filter]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	counts := make(map[model.Filter]int, len(model.Filters()))
	for _, f := range model.Filters() {
		counts[f] = 0
	}
	for i := range s.todos {
		for _, f := range model.Filters() {
			if Matches(&s.todos[i], f, now) {
				counts[f]++
			}
		}
	}
	return counts
}

// commit persists next and installs it. Callers hold s.mu.
func (s *Store) commit(next []model.Todo) error {
	if err := s.write(model.TodosKey(s.userID), next); err != nil {
		return err
	}
	s.todos = next
	return nil
}

func (s *Store) write(key string, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return errors.NewStorageError("encode", key, err)
	}
	return s.kv.Set(key, string(data))
}

func (s *Store) indexOf(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i := range todos {
		out[i] = todos[i].Clone()
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func validateInput(in model.TodoInput) error {
	if err := validate.Title(in.Title); err != nil {
		return err
	}
	if err := validate.Description(in.Description); err != nil {
		return err
	}
	if err := validate.Priority(string(in.Priority)); err != nil {
		return err
	}
	return validate.Category(string(in.Category))
}

func validatePatch(p model.TodoPatch) error {
	if p.Title != nil {
		if err := validate.Title(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validate.Description(*p.Description); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if *p.Priority == "" {
			return errors.NewValidationError("priority", "cannot be empty")
		}
		if err := validate.Priority(string(*p.Priority)); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if *p.Category == "" {
			return errors.NewValidationError("category", "cannot be empty")
		}
		if err := validate.Category(string(*p.Category)); err != nil {
			return err
		}
	}
	return nil
}
