package model

// ExampleData is produced by the example service.
type ExampleData struct {
	Message   string            `json:"message" validate:"required"`
	Timestamp string            `json:"timestamp" validate:"required"`
	Data      map[string]string `json:"data" validate:"required"`
}

// ProcessRequest is the body accepted by the user data processing endpoint.
type ProcessRequest struct {
	Data map[string]any `json:"data" validate:"required"`
}

// ProcessResult correlates a user id with the time and summary of processing.
type ProcessResult struct {
	UserID      string `json:"user_id"`
	ProcessedAt string `json:"processed_at" validate:"required"`
	Result      string `json:"result" validate:"required"`
}
