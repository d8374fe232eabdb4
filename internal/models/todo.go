package model

// TodoResponse is the payload of the remote demo todos endpoint.
type TodoResponse struct {
	Todos []TodoItem `json:"todos"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

type TodoItem struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}
