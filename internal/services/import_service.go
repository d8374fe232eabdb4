package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "todo-list.com/todo-list/internal/errors"
	model "todo-list.com/todo-list/internal/models"
	repository "todo-list.com/todo-list/internal/repositories"
)

const ImportedDescription = "Imported from API"

type TodosFetcher interface {
	FetchTodos(ctx context.Context) ([]model.TodoItem, error)
}

type ImportResult struct {
	Imported int   `json:"imported"`
	Skipped  bool  `json:"skipped"`
	Err      error `json:"-"`
}

// ImportService seeds the store from the remote todos list once. The
// persisted import flag is only set after the merged tasks are saved.
type ImportService struct {
	store   *TaskStore
	repo    *repository.TaskRepository
	fetcher TodosFetcher
	timeout time.Duration
	group   singleflight.Group
}

func NewImportService(
	store *TaskStore,
	repo *repository.TaskRepository,
	fetcher TodosFetcher,
	timeout time.Duration,
) *ImportService {
	return &ImportService{
		store:   store,
		repo:    repo,
		fetcher: fetcher,
		timeout: timeout,
	}
}

// Run imports unless the flag says it already happened. Concurrent calls
// share one attempt, which is detached from any single caller's
// cancellation and bounded by the fetch timeout instead.
func (s *ImportService) Run(ctx context.Context) (ImportResult, error) {
	v, err, shared := s.group.Do("import", func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})
	if shared {
		log.Println("import: joined an import already in flight")
	}
	if err != nil {
		return ImportResult{}, err
	}
	return v.(ImportResult), nil
}

// Start runs the import on its own goroutine and delivers exactly one
// result on the returned channel.
func (s *ImportService) Start(ctx context.Context) <-chan ImportResult {
	done := make(chan ImportResult, 1)
	go func() {
		res, err := s.Run(ctx)
		if err != nil {
			res = ImportResult{Err: err}
		}
		done <- res
		close(done)
	}()
	return done
}

// Reset clears the import flag so the next Run fetches again.
func (s *ImportService) Reset(ctx context.Context) error {
	if err := s.repo.SetImported(ctx, false); err != nil {
		return apperrors.ErrPersistence.Wrap(err)
	}
	return nil
}

func (s *ImportService) run(ctx context.Context) (ImportResult, error) {
	imported, err := s.repo.IsImported(ctx)
	if err != nil {
		return ImportResult{}, apperrors.ErrImport.Wrap(err)
	}
	if imported {
		log.Println("import: already done, skipping")
		return ImportResult{Skipped: true}, nil
	}

	items, err := s.fetch(ctx)
	if err != nil {
		log.Printf("import: fetch failed: %v", err)
		return ImportResult{}, apperrors.ErrImport.Wrap(err)
	}

	now := s.store.now()
	batch := make([]model.Task, 0, len(items))
	for _, item := range items {
		t := model.Task{
			Title:       item.Todo,
			Description: ImportedDescription,
			CreatedAt:   now,
		}
		t.SetCompleted(item.Completed, now)
		batch = append(batch, t)
	}

	if err := s.store.Merge(ctx, batch); err != nil {
		log.Printf("import: merge failed: %v", err)
		return ImportResult{}, apperrors.ErrImport.Wrap(err)
	}

	if err := s.repo.SetImported(ctx, true); err != nil {
		log.Printf("import: %d tasks merged but flag write failed: %v", len(batch), err)
		return ImportResult{}, apperrors.ErrImport.Wrap(err)
	}

	log.Printf("import: merged %d tasks", len(batch))
	return ImportResult{Imported: len(batch)}, nil
}

func (s *ImportService) fetch(ctx context.Context) ([]model.TodoItem, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.fetcher.FetchTodos(ctx)
}
