package model

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SetCompleted keeps CompletedAt present exactly when the task is completed.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	if completed == t.IsCompleted {
		return
	}

	t.IsCompleted = completed
	if completed {
		completedAt := now
		t.CompletedAt = &completedAt
		return
	}
	t.CompletedAt = nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}

func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

func ShareText(t Task) string {
	return fmt.Sprintf("Моя задача: %s\nОписание: %s", t.Title, t.Description)
}
