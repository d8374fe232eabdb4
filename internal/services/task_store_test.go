package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	apperrors "todo-list.com/todo-list/internal/errors"
	model "todo-list.com/todo-list/internal/models"
	repository "todo-list.com/todo-list/internal/repositories"
)

func TestTaskStore_CreateAndList(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	existing, err := env.store.Create(ctx, "Existing", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	task, err := env.store.Create(ctx, "Buy milk", "From store")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == "" || task.ID == existing.ID {
		t.Errorf("expected a fresh unique id, got %q", task.ID)
	}
	if task.IsCompleted || task.CompletedAt != nil {
		t.Errorf("new task should not be completed: %+v", task)
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	tasks := env.store.ListAll(ctx)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	found := 0
	for _, got := range tasks {
		if got.ID == task.ID {
			found++
			if got.Title != "Buy milk" || got.Description != "From store" {
				t.Errorf("stored task fields = %q/%q", got.Title, got.Description)
			}
		}
	}
	if found != 1 {
		t.Errorf("expected exactly one task with id %s, found %d", task.ID, found)
	}
}

func TestTaskStore_CreateRejectsBlankTitle(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := env.store.Create(ctx, title, "desc")
		if !errors.Is(err, apperrors.ErrTitleRequired) {
			t.Errorf("Create(%q) error = %v, want ErrTitleRequired", title, err)
		}
	}

	if n := len(env.store.ListAll(ctx)); n != 0 {
		t.Errorf("expected no tasks after rejected creates, got %d", n)
	}
}

func TestTaskStore_ListAllNewestFirst(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := env.store.Create(ctx, title, ""); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks := env.store.ListAll(ctx)
	want := []string{"third", "second", "first"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, tasks[i].Title)
		}
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].CreatedAt.Before(tasks[i].CreatedAt) {
			t.Errorf("tasks %d and %d out of order", i-1, i)
		}
	}
}

func TestTaskStore_ListAllReturnsCopies(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	task, _ := env.store.Create(ctx, "X", "")
	if _, err := env.store.ToggleCompletion(ctx, task.ID); err != nil {
		t.Fatalf("ToggleCompletion() error = %v", err)
	}

	tasks := env.store.ListAll(ctx)
	tasks[0].Title = "changed"
	*tasks[0].CompletedAt = tasks[0].CompletedAt.AddDate(-1, 0, 0)

	fresh, _ := env.store.Get(ctx, task.ID)
	if fresh.Title != "X" {
		t.Errorf("caller mutation leaked into store title: %q", fresh.Title)
	}
	if fresh.CompletedAt.Equal(*tasks[0].CompletedAt) {
		t.Error("caller mutation leaked into store CompletedAt")
	}
}

func TestTaskStore_Update(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	task, _ := env.store.Create(ctx, "Call mom", "")
	toggled, _ := env.store.ToggleCompletion(ctx, task.ID)

	updated, err := env.store.Update(ctx, task.ID, "Call mom and dad", "Weekend plans")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "Call mom and dad" || updated.Description != "Weekend plans" {
		t.Errorf("unexpected fields after update: %+v", updated)
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", task.CreatedAt, updated.CreatedAt)
	}
	if !updated.IsCompleted || !updated.CompletedAt.Equal(*toggled.CompletedAt) {
		t.Errorf("completion changed by update: %+v", updated)
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.store.Update(ctx, "missing", "title", "")
		if !errors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := env.store.Update(ctx, task.ID, " ", "")
		if !errors.Is(err, apperrors.ErrTitleRequired) {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
	})
}

func TestTaskStore_ToggleCompletionIsItsOwnInverse(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	task, _ := env.store.Create(ctx, "X", "")

	done, err := env.store.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleCompletion() error = %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == nil {
		t.Fatalf("expected completed task with CompletedAt, got %+v", done)
	}

	undone, err := env.store.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleCompletion() error = %v", err)
	}
	if undone.IsCompleted || undone.CompletedAt != nil {
		t.Errorf("expected task back to not completed without CompletedAt, got %+v", undone)
	}

	if _, err := env.store.ToggleCompletion(ctx, "missing"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskStore_Delete(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	keep, _ := env.store.Create(ctx, "keep", "")
	gone, _ := env.store.Create(ctx, "gone", "")

	if err := env.store.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, task := range env.store.ListAll(ctx) {
		if task.ID == gone.ID {
			t.Fatal("deleted task still listed")
		}
	}
	if _, err := env.store.Get(ctx, keep.ID); err != nil {
		t.Errorf("other task lost: %v", err)
	}

	if err := env.store.Delete(ctx, gone.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTaskNotFound", err)
	}
	if _, err := env.store.ToggleCompletion(ctx, gone.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("ToggleCompletion() after delete error = %v, want ErrTaskNotFound", err)
	}
	if _, err := env.store.Update(ctx, gone.ID, "back", ""); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("Update() after delete error = %v, want ErrTaskNotFound", err)
	}
	if _, err := env.store.Get(ctx, gone.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrTaskNotFound", err)
	}

	if _, err := env.store.Create(ctx, "new", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, task := range env.store.ListAll(ctx) {
		if task.ID == gone.ID {
			t.Error("deleted id reappeared")
		}
	}
}

func TestTaskStore_Search(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	_, _ = env.store.Create(ctx, "Buy milk", "From store")
	_, _ = env.store.Create(ctx, "Call mom", "Weekend plans")
	_, _ = env.store.Create(ctx, "Write report", "needs MILK figures")
	_, _ = env.store.Create(ctx, "Купить хлеб", "Магазин")

	t.Run("single match", func(t *testing.T) {
		_, _ = env.store.Create(ctx, "Walk", "")
		got := env.store.Search(ctx, "mom")
		if len(got) != 1 || got[0].Title != "Call mom" {
			t.Errorf("Search(mom) = %v", titles(got))
		}
	})

	t.Run("title or description, case-insensitive", func(t *testing.T) {
		got := env.store.Search(ctx, "Milk")
		want := []string{"Write report", "Buy milk"}
		if strings.Join(titles(got), ",") != strings.Join(want, ",") {
			t.Errorf("Search(Milk) = %v, want %v", titles(got), want)
		}
	})

	t.Run("non-ascii case folding", func(t *testing.T) {
		got := env.store.Search(ctx, "КУПИТЬ")
		if len(got) != 1 || got[0].Title != "Купить хлеб" {
			t.Errorf("Search(КУПИТЬ) = %v", titles(got))
		}
	})

	t.Run("empty query equals list", func(t *testing.T) {
		all := env.store.ListAll(ctx)
		got := env.store.Search(ctx, "")
		if strings.Join(ids(got), ",") != strings.Join(ids(all), ",") {
			t.Errorf("Search(\"\") = %v, ListAll() = %v", ids(got), ids(all))
		}
	})

	t.Run("subset with exact partition", func(t *testing.T) {
		query := "o"
		got := env.store.Search(ctx, query)
		matched := make(map[string]bool)
		for _, task := range got {
			matched[task.ID] = true
		}

		for _, task := range env.store.ListAll(ctx) {
			contains := strings.Contains(strings.ToLower(task.Title), query) ||
				strings.Contains(strings.ToLower(task.Description), query)
			if contains != matched[task.ID] {
				t.Errorf("task %q: contains=%v matched=%v", task.Title, contains, matched[task.ID])
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := env.store.Search(ctx, "zzz"); len(got) != 0 {
			t.Errorf("expected no results, got %v", titles(got))
		}
	})
}

func TestTaskStore_SearchScenario(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	_, _ = env.store.Create(ctx, "Buy milk", "From store")
	_, _ = env.store.Create(ctx, "Call mom", "Weekend plans")

	got := env.store.Search(ctx, "milk")
	if len(got) != 1 || got[0].Title != "Buy milk" {
		t.Errorf("Search(milk) = %v, want [Buy milk]", titles(got))
	}
}

func TestTaskStore_PersistsAcrossRestart(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	a, _ := env.store.Create(ctx, "A", "first")
	b, _ := env.store.Create(ctx, "B", "")
	_, _ = env.store.ToggleCompletion(ctx, b.ID)
	c, _ := env.store.Create(ctx, "C", "")
	_ = env.store.Delete(ctx, c.ID)

	reopened := NewTaskStore(env.repo)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tasks := reopened.ListAll(ctx)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after reload, got %d", len(tasks))
	}
	if tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Errorf("unexpected order after reload: %v", ids(tasks))
	}
	if !tasks[0].IsCompleted || tasks[0].CompletedAt == nil {
		t.Errorf("completion lost on reload: %+v", tasks[0])
	}
	if !tasks[1].CreatedAt.Equal(a.CreatedAt) || tasks[1].Description != "first" {
		t.Errorf("fields lost on reload: %+v", tasks[1])
	}
}

func TestTaskStore_LoadTreatsCorruptOrMissingAsEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		env := setupTestStore(t)
		if n := len(env.store.ListAll(ctx)); n != 0 {
			t.Errorf("expected empty store, got %d tasks", n)
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		env := setupTestStore(t)
		if err := env.kv.Set(ctx, repository.TasksKey, []byte("{not json")); err != nil {
			t.Fatalf("failed to seed corrupt blob: %v", err)
		}

		store := NewTaskStore(env.repo)
		if err := store.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if n := len(store.ListAll(ctx)); n != 0 {
			t.Errorf("expected empty store, got %d tasks", n)
		}

		if _, err := store.Create(ctx, "fresh", ""); err != nil {
			t.Fatalf("Create() after corrupt load error = %v", err)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		env := setupTestStore(t)
		env.kv.failGets.Store(true)

		err := NewTaskStore(env.repo).Load(ctx)
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Errorf("Load() error = %v, want ErrPersistence", err)
		}
	})
}

func TestTaskStore_PersistenceFailureRollsBack(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	task, _ := env.store.Create(ctx, "stable", "")
	before := env.store.ListAll(ctx)

	var notified int
	unsubscribe := env.store.Subscribe(func([]model.Task) { notified++ })
	defer unsubscribe()

	env.kv.failSets.Store(true)

	if _, err := env.store.Create(ctx, "lost", ""); !errors.Is(err, apperrors.ErrPersistence) {
		t.Errorf("Create() error = %v, want ErrPersistence", err)
	}
	if _, err := env.store.ToggleCompletion(ctx, task.ID); !errors.Is(err, apperrors.ErrPersistence) {
		t.Errorf("ToggleCompletion() error = %v, want ErrPersistence", err)
	}
	if _, err := env.store.Update(ctx, task.ID, "renamed", ""); !errors.Is(err, apperrors.ErrPersistence) {
		t.Errorf("Update() error = %v, want ErrPersistence", err)
	}
	if err := env.store.Delete(ctx, task.ID); !errors.Is(err, apperrors.ErrPersistence) {
		t.Errorf("Delete() error = %v, want ErrPersistence", err)
	}

	after := env.store.ListAll(ctx)
	if len(after) != len(before) || after[0].Title != "stable" || after[0].IsCompleted {
		t.Errorf("in-memory state diverged after failed writes: %+v", after)
	}
	if notified != 0 {
		t.Errorf("listeners notified %d times for failed writes", notified)
	}

	env.kv.failSets.Store(false)
	reopened := NewTaskStore(env.repo)
	_ = reopened.Load(ctx)
	if got := reopened.ListAll(ctx); len(got) != 1 || got[0].Title != "stable" {
		t.Errorf("disk state diverged: %+v", got)
	}
}

func TestTaskStore_NotifiesListenersInOrder(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	var pushed [][]model.Task
	unsubscribe := env.store.Subscribe(func(tasks []model.Task) {
		pushed = append(pushed, tasks)
	})

	task, _ := env.store.Create(ctx, "one", "")
	if len(pushed) != 1 {
		t.Fatalf("expected notification before Create returned, got %d", len(pushed))
	}
	_, _ = env.store.Create(ctx, "two", "")
	_, _ = env.store.ToggleCompletion(ctx, task.ID)
	_ = env.store.Delete(ctx, task.ID)
	_, _ = env.store.Create(ctx, "", "")

	if len(pushed) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(pushed))
	}
	wantLens := []int{1, 2, 2, 1}
	for i, n := range wantLens {
		if len(pushed[i]) != n {
			t.Errorf("notification %d carried %d tasks, want %d", i, len(pushed[i]), n)
		}
	}
	if !pushed[2][1].IsCompleted {
		t.Error("toggle notification did not carry the completed task")
	}

	unsubscribe()
	_, _ = env.store.Create(ctx, "three", "")
	if len(pushed) != 4 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestTaskStore_ConcurrentCreates(t *testing.T) {
	kv := setupTestKV(t)
	store := NewTaskStore(repository.NewTaskRepository(kv))
	ctx := context.Background()

	const concurrentCount = 50
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)
	for i := 0; i < concurrentCount; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.Create(ctx, "Title", "Desc"); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	tasks := store.ListAll(ctx)
	if len(tasks) != concurrentCount {
		t.Errorf("expected %d tasks, got %d", concurrentCount, len(tasks))
	}
	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}

	reopened := NewTaskStore(repository.NewTaskRepository(kv))
	_ = reopened.Load(ctx)
	if n := len(reopened.ListAll(ctx)); n != concurrentCount {
		t.Errorf("expected %d persisted tasks, got %d", concurrentCount, n)
	}
}

func TestTaskStore_RetriesCollidingIDs(t *testing.T) {
	kv := setupTestKV(t)
	generated := []string{"a", "a", "b"}
	next := 0
	store := NewTaskStore(repository.NewTaskRepository(kv), WithIDGenerator(func() string {
		id := generated[next]
		next++
		return id
	}))
	ctx := context.Background()

	first, _ := store.Create(ctx, "first", "")
	second, _ := store.Create(ctx, "second", "")

	if first.ID != "a" || second.ID != "b" {
		t.Errorf("expected ids a and b, got %s and %s", first.ID, second.ID)
	}
}

func TestTaskStore_Stats(t *testing.T) {
	env := setupTestStore(t)
	ctx := context.Background()

	a, _ := env.store.Create(ctx, "a", "")
	_, _ = env.store.Create(ctx, "b", "")
	_, _ = env.store.ToggleCompletion(ctx, a.ID)

	stats := env.store.Stats(ctx)
	if stats.Total != 2 || stats.Completed != 1 {
		t.Errorf("Stats() = %+v, want total 2 completed 1", stats)
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
