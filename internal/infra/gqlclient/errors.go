package gqlclient

import "errors"

// Error codes reported by the article API.
const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// ResponseError is the first error of a GraphQL response.
type ResponseError struct {
	Message string
	Code    string
	Field   string
}

func (e *ResponseError) Error() string {
	if e.Field != "" {
		return e.Message + " (" + e.Field + ")"
	}
	return e.Message
}

// IsNotFound reports whether err is a NOT_FOUND response.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsBadUserInput reports whether err is a BAD_USER_INPUT response.
func IsBadUserInput(err error) bool {
	return hasCode(err, CodeBadUserInput)
}

func hasCode(err error, code string) bool {
	var rErr *ResponseError
	return errors.As(err, &rErr) && rErr.Code == code
}
