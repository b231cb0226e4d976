// Package article provides use cases for managing sports articles.
// It implements validation, pagination and soft deletion on top of the
// article repository.
package article

import (
	"errors"

	"sports-cms/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that no active article matches the id.
	// Unknown, malformed and soft-deleted ids all map to this error.
	ErrArticleNotFound = errors.New("article not found")
)

// Kind classifies use case errors for transport layers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf reports the class of err. Anything that is neither a validation
// error nor a not-found error is internal.
func KindOf(err error) Kind {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		return KindValidation
	case errors.Is(err, ErrArticleNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
