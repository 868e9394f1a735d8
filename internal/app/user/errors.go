package user

import (
	"errors"

	domcommon "github.com/tommy-mor/spare/internal/domain/common"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidName  = errors.New("invalid name")
)

func IsNotFound(err error) bool {
	return domcommon.IsNotFound(err)
}

func IsConflict(err error) bool {
	return domcommon.IsConflict(err)
}
