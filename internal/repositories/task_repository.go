package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	model "todo-list.com/todo-list/internal/models"
)

const (
	TasksKey      = "task_items"
	ImportFlagKey = "hasLoadedFromAPI"
)

var ErrCorruptSnapshot = errors.New("persisted tasks are corrupt")

// TaskRepository stores the whole task collection as one JSON snapshot
// next to the import flag.
type TaskRepository struct {
	kv KeyValueStore
}

func NewTaskRepository(kv KeyValueStore) *TaskRepository {
	return &TaskRepository{kv: kv}
}

// LoadTasks returns an empty collection when nothing was saved yet.
func (r *TaskRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	data, err := r.kv.Get(ctx, TasksKey)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", TasksKey, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := r.kv.Set(ctx, TasksKey, data); err != nil {
		return fmt.Errorf("write %s: %w", TasksKey, err)
	}
	return nil
}

// IsImported treats a missing or unreadable flag as false.
func (r *TaskRepository) IsImported(ctx context.Context) (bool, error) {
	data, err := r.kv.Get(ctx, ImportFlagKey)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", ImportFlagKey, err)
	}

	imported, err := strconv.ParseBool(string(data))
	if err != nil {
		return false, nil
	}
	return imported, nil
}

func (r *TaskRepository) SetImported(ctx context.Context, imported bool) error {
	if err := r.kv.Set(ctx, ImportFlagKey, []byte(strconv.FormatBool(imported))); err != nil {
		return fmt.Errorf("write %s: %w", ImportFlagKey, err)
	}
	return nil
}
