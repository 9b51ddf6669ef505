package dto

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a generic informational response body.
type MessageResponse struct {
	Message string `json:"message"`
}
