package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	model "todo-list.com/todo-list/internal/models"
)

// maxResponseBytes bounds the body read from the todos endpoint.
const maxResponseBytes = 4 << 20

// TodosClient fetches the seed list from the remote demo API.
type TodosClient struct {
	url        string
	httpClient *http.Client
}

func NewTodosClient(url string, timeout time.Duration) *TodosClient {
	return &TodosClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *TodosClient) FetchTodos(ctx context.Context) ([]model.TodoItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch todos: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}

	var payload model.TodoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	if payload.Todos == nil {
		return nil, fmt.Errorf("decode todos: missing todos field")
	}

	return payload.Todos, nil
}
