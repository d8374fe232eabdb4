package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	apperrors "todo-list.com/todo-list/internal/errors"
	model "todo-list.com/todo-list/internal/models"
	repository "todo-list.com/todo-list/internal/repositories"
)

// Listener receives the full, ordered task list after every successful
// mutation. It runs before the mutating call returns and must not call the
// store's mutating methods.
type Listener func(tasks []model.Task)

// TaskStore owns the task collection. Every mutation is applied to a copy,
// persisted, and only then swapped in, so a failed write leaves memory as it
// was before the call.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []model.Task
	repo  *repository.TaskRepository

	// serializes mutate-persist-notify; readers only need mu
	writeMu sync.Mutex

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int

	now   func() time.Time
	newID func() string
}

type StoreOption func(*TaskStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *TaskStore) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *TaskStore) {
		s.newID = newID
	}
}

func NewTaskStore(repo *repository.TaskRepository, opts ...StoreOption) *TaskStore {
	s := &TaskStore{
		tasks:     []model.Task{},
		repo:      repo,
		listeners: make(map[int]Listener),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A corrupt
// snapshot is logged and treated as an empty store.
func (s *TaskStore) Load(ctx context.Context) error {
	tasks, err := s.repo.LoadTasks(ctx)
	if errors.Is(err, repository.ErrCorruptSnapshot) {
		log.Printf("task store: %v, starting empty", err)
		tasks = []model.Task{}
	} else if err != nil {
		return apperrors.ErrPersistence.Wrap(err)
	}

	s.writeMu.Lock()
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.writeMu.Unlock()

	log.Printf("task store: loaded %d tasks", len(tasks))
	return nil
}

func (s *TaskStore) ListAll(ctx context.Context) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedCopy(s.tasks)
}

func (s *TaskStore) Get(ctx context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.tasks, id)
	if i < 0 {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	return s.tasks[i].Clone(), nil
}

// Search returns tasks whose title or description contains query,
// ignoring case, in ListAll order. An empty query returns everything.
func (s *TaskStore) Search(ctx context.Context, query string) []model.Task {
	all := s.ListAll(ctx)
	if query == "" {
		return all
	}

	folder := cases.Fold()
	needle := folder.String(query)

	matches := make([]model.Task, 0, len(all))
	for _, t := range all {
		if matchesQuery(folder, t, needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

func matchesQuery(folder cases.Caser, t model.Task, needle string) bool {
	return strings.Contains(folder.String(t.Title), needle) ||
		strings.Contains(folder.String(t.Description), needle)
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func (s *TaskStore) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.IsCompleted {
			stats.Completed++
		}
	}
	return stats
}

func (s *TaskStore) Create(ctx context.Context, title, description string) (model.Task, error) {
	if isBlank(title) {
		return model.Task{}, apperrors.ErrTitleRequired
	}

	var created model.Task
	err := s.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		created = model.Task{
			ID:          s.uniqueID(tasks),
			Title:       title,
			Description: description,
			CreatedAt:   s.now(),
		}
		return append(tasks, created), nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return created.Clone(), nil
}

func (s *TaskStore) Update(ctx context.Context, id, title, description string) (model.Task, error) {
	if isBlank(title) {
		return model.Task{}, apperrors.ErrTitleRequired
	}

	var updated model.Task
	err := s.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, apperrors.ErrTaskNotFound
		}
		tasks[i].Title = title
		tasks[i].Description = description
		updated = tasks[i]
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return updated.Clone(), nil
}

func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	var toggled model.Task
	err := s.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, apperrors.ErrTaskNotFound
		}
		tasks[i].SetCompleted(!tasks[i].IsCompleted, s.now())
		toggled = tasks[i]
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return toggled.Clone(), nil
}

// Delete fails with ErrTaskNotFound for an unknown id, like Update and
// ToggleCompletion.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, apperrors.ErrTaskNotFound
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

// Merge appends a batch of tasks in one write. Titles are taken as given;
// ids are always assigned by the store and the completion timestamp is
// normalised to the task's completion state.
func (s *TaskStore) Merge(ctx context.Context, batch []model.Task) error {
	if len(batch) == 0 {
		return nil
	}

	return s.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		now := s.now()
		for _, t := range batch {
			t = t.Clone()
			t.ID = s.uniqueID(tasks)
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			switch {
			case t.IsCompleted && t.CompletedAt == nil:
				completedAt := now
				t.CompletedAt = &completedAt
			case !t.IsCompleted:
				t.CompletedAt = nil
			}
			tasks = append(tasks, t)
		}
		return tasks, nil
	})
}

// Subscribe registers l and returns a func that removes it.
func (s *TaskStore) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *TaskStore) mutate(ctx context.Context, fn func(tasks []model.Task) ([]model.Task, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next, err := fn(model.CloneTasks(s.tasks))
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := s.repo.SaveTasks(ctx, next); err != nil {
		log.Printf("task store: persist failed, keeping previous state: %v", err)
		return apperrors.ErrPersistence.Wrap(err)
	}

	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()

	s.notify(sortedCopy(next))
	return nil
}

func (s *TaskStore) notify(snapshot []model.Task) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(model.CloneTasks(snapshot))
	}
}

func (s *TaskStore) uniqueID(tasks []model.Task) string {
	for {
		id := s.newID()
		if indexOf(tasks, id) < 0 {
			return id
		}
	}
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// sortedCopy orders newest first; equal timestamps keep insertion order.
func sortedCopy(tasks []model.Task) []model.Task {
	out := model.CloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
