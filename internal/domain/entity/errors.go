package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no active article has the requested id.
// Soft-deleted and malformed ids are reported the same way.
var ErrNotFound = errors.New("article not found")

// ValidationError names the first article field that failed validation.
// Message is shown to API clients unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
