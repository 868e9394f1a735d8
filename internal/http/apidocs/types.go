package apidocs

import "time"

// HealthResponse is the shape of /health.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Redis   string `json:"redis" example:"ok"`
	DB      string `json:"db" example:"ok"`
	TraceID string `json:"traceId,omitempty"`
}

// UserResponse represents a user for responses.
type UserResponse struct {
	ID        string    `json:"id" example:"3f0b8f3e-8a4e-4b43-9d0a-6f1c2f7d9a10"`
	Email     string    `json:"email" example:"test@example.com"`
	Name      string    `json:"name" example:"Test User"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Email string `json:"email" example:"test@example.com"`
	Name  string `json:"name" example:"Test User"`
}

type UpdateUserRequest struct {
	Name  string `json:"name,omitempty" example:"Updated Name"`
	Email string `json:"email,omitempty" example:"new@example.com"`
}

// ErrorResponse matches responses.ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error" example:"User not found"`
}
