package dto

// TaskRequestData is the body of create and update requests.
type TaskRequestData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
