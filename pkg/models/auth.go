package models

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error       string   `json:"error"`
	EmptyFields []string `json:"emptyFields,omitempty"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
