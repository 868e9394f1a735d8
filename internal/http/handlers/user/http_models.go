package user

// Email syntax is checked by the service after trimming and lowercasing.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name"  validate:"required,min=2,max=100"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=100"`
	Email *string `json:"email"`
}
