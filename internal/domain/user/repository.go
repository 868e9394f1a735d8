package user

import (
	"context"

	"github.com/tommy-mor/spare/internal/domain/common"
)

var (
	ErrNotFound   = common.NewNotFound("user")
	ErrEmailTaken = common.NewConflict("user", "email")
)

type ListFilter struct {
	Limit  int
	Offset int
}

// Repository returns ErrNotFound for unknown ids and ErrEmailTaken when a
// write would duplicate an email.
type Repository interface {
	GetById(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}
