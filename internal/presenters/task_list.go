package presenters

import (
	"context"
	"sync"

	apperrors "todo-list.com/todo-list/internal/errors"
	model "todo-list.com/todo-list/internal/models"
	"todo-list.com/todo-list/internal/services"
)

type TaskListView interface {
	ShowTasks(tasks []model.Task)
	ShowFilteredTasks(query string, tasks []model.Task)
	ShowError(message string)
}

type Importer interface {
	Start(ctx context.Context) <-chan services.ImportResult
}

// TaskListPresenter turns user intents into store calls and keeps the view
// in sync with the lists the store pushes back.
type TaskListPresenter struct {
	view     TaskListView
	store    *services.TaskStore
	importer Importer

	mu        sync.Mutex
	allTasks  []model.Task
	filtered  []model.Task
	query     string
	searching bool
	pushes    int

	unsubscribe func()
}

func NewTaskListPresenter(view TaskListView, store *services.TaskStore, importer Importer) *TaskListPresenter {
	p := &TaskListPresenter{
		view:     view,
		store:    store,
		importer: importer,
	}
	p.unsubscribe = store.Subscribe(p.didChangeTasks)
	return p
}

func (p *TaskListPresenter) Close() {
	p.unsubscribe()
}

// ViewDidLoad waits for the one-time import, if any, then shows the list.
// An import failure is reported but the persisted tasks are still shown.
// The list is rendered once: a merge already pushed it through the
// subscription, otherwise it is read from the store.
func (p *TaskListPresenter) ViewDidLoad(ctx context.Context) {
	p.mu.Lock()
	before := p.pushes
	p.mu.Unlock()

	if p.importer != nil {
		res := <-p.importer.Start(ctx)
		if res.Err != nil {
			p.view.ShowError(apperrors.Message(res.Err))
		}
	}

	p.mu.Lock()
	pushed := p.pushes != before
	p.mu.Unlock()
	if !pushed {
		p.Refresh(ctx)
	}
}

func (p *TaskListPresenter) Refresh(ctx context.Context) {
	p.didChangeTasks(p.store.ListAll(ctx))
}

func (p *TaskListPresenter) AddTask(ctx context.Context, title, description string) error {
	_, err := p.store.Create(ctx, title, description)
	return p.report(err)
}

func (p *TaskListPresenter) EditTask(ctx context.Context, id, title, description string) error {
	_, err := p.store.Update(ctx, id, title, description)
	return p.report(err)
}

func (p *TaskListPresenter) ToggleTask(ctx context.Context, id string) error {
	_, err := p.store.ToggleCompletion(ctx, id)
	return p.report(err)
}

func (p *TaskListPresenter) DeleteTask(ctx context.Context, id string) error {
	return p.report(p.store.Delete(ctx, id))
}

// Search filters the list; an empty query ends the search.
func (p *TaskListPresenter) Search(ctx context.Context, query string) {
	if query == "" {
		p.CancelSearch()
		return
	}

	filtered := p.store.Search(ctx, query)

	p.mu.Lock()
	p.searching = true
	p.query = query
	p.filtered = filtered
	p.mu.Unlock()

	p.view.ShowFilteredTasks(query, filtered)
}

func (p *TaskListPresenter) CancelSearch() {
	p.mu.Lock()
	p.searching = false
	p.query = ""
	p.filtered = nil
	all := p.allTasks
	p.mu.Unlock()

	p.view.ShowTasks(all)
}

func (p *TaskListPresenter) Searching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searching
}

func (p *TaskListPresenter) NumberOfTasks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visible())
}

// TaskAt returns the i-th task of whichever list is on screen.
func (p *TaskListPresenter) TaskAt(i int) (model.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tasks := p.visible()
	if i < 0 || i >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[i], true
}

func (p *TaskListPresenter) didChangeTasks(tasks []model.Task) {
	p.mu.Lock()
	p.allTasks = tasks
	p.pushes++
	searching, query := p.searching, p.query
	p.mu.Unlock()

	if !searching {
		p.view.ShowTasks(tasks)
		return
	}

	filtered := p.store.Search(context.Background(), query)
	p.mu.Lock()
	p.filtered = filtered
	p.mu.Unlock()
	p.view.ShowFilteredTasks(query, filtered)
}

func (p *TaskListPresenter) visible() []model.Task {
	if p.searching {
		return p.filtered
	}
	return p.allTasks
}

func (p *TaskListPresenter) report(err error) error {
	if err != nil {
		p.view.ShowError(apperrors.Message(err))
	}
	return err
}
