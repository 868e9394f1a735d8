package common

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Entity string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func NewNotFound(entity string) error {
	return NotFoundError{Entity: entity}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// ConflictError reports a uniqueness violation on one field of an entity.
type ConflictError struct {
	Entity string
	Field  string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func NewConflict(entity, field string) error {
	return ConflictError{Entity: entity, Field: field}
}

func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}
