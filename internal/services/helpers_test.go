package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	config "todo-list.com/todo-list/internal/configs"
	repository "todo-list.com/todo-list/internal/repositories"
)

// fakeClock advances one second on every reading so creation order is
// visible in CreatedAt.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 5, 7, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("task-%d", atomic.AddInt64(&n, 1))
	}
}

// flakyKV wraps a real store and fails writes on demand.
type flakyKV struct {
	repository.KeyValueStore
	failSets atomic.Bool
	failGets atomic.Bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets.Load() {
		return nil, errDiskFull
	}
	return f.KeyValueStore.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSets.Load() {
		return errDiskFull
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

func setupTestKV(t *testing.T) *flakyKV {
	t.Helper()

	db, err := config.NewDatabaseClient(filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &flakyKV{KeyValueStore: repository.NewSQLiteKeyValueStore(db)}
}

type testEnv struct {
	kv    *flakyKV
	repo  *repository.TaskRepository
	store *TaskStore
	clock *fakeClock
}

func setupTestStore(t *testing.T) *testEnv {
	t.Helper()

	kv := setupTestKV(t)
	repo := repository.NewTaskRepository(kv)
	clock := newFakeClock()
	store := NewTaskStore(repo, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	return &testEnv{kv: kv, repo: repo, store: store, clock: clock}
}
