package cmd

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"todo-list.com/todo-list/internal/clients"
	config "todo-list.com/todo-list/internal/configs"
	repository "todo-list.com/todo-list/internal/repositories"
	"todo-list.com/todo-list/internal/services"
)

// app holds the single store instance every command works against.
type app struct {
	cfg      config.Config
	store    *services.TaskStore
	importer *services.ImportService
	close    func()
}

func newApp(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()

	kv, closeStorage, err := config.NewKeyValueStore(cfg)
	if err != nil {
		return nil, err
	}

	taskRepo := repository.NewTaskRepository(kv)
	store := services.NewTaskStore(taskRepo)
	if err := store.Load(ctx); err != nil {
		closeStorage()
		return nil, err
	}

	timeout := time.Duration(cfg.ImportTimeoutSeconds) * time.Second
	todosClient := clients.NewTodosClient(cfg.TodosURL, timeout)
	importer := services.NewImportService(store, taskRepo, todosClient, timeout)

	return &app{
		cfg:      cfg,
		store:    store,
		importer: importer,
		close:    closeStorage,
	}, nil
}
