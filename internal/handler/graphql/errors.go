package graphql

import (
	"context"
	"errors"
	"log/slog"

	"sports-cms/internal/domain/entity"
	"sports-cms/internal/handler/http/respond"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/usecase/article"
)

// Error codes placed in errors[].extensions.code.
const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

const msgNotFound = "Article not found"

// Error is a client-facing GraphQL error.
type Error struct {
	Message string
	Code    string
	Field   string // set for BAD_USER_INPUT
}

func (e *Error) Error() string { return e.Message }

// Extensions is picked up by graphql-go and rendered under errors[].extensions.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

// toGraphQLError maps a use case error to the error returned to the client.
// Internal causes are logged and replaced by fallback.
func toGraphQLError(ctx context.Context, op string, err error, fallback string) *Error {
	switch article.KindOf(err) {
	case article.KindValidation:
		var vErr *entity.ValidationError
		errors.As(err, &vErr)
		return &Error{Message: vErr.Message, Code: CodeBadUserInput, Field: vErr.Field}
	case article.KindNotFound:
		return &Error{Message: msgNotFound, Code: CodeNotFound}
	default:
		logging.FromContext(ctx).Error("graphql operation failed",
			slog.String("operation", op),
			slog.String("error", respond.SanitizeError(err)))
		return &Error{Message: fallback, Code: CodeInternal}
	}
}
