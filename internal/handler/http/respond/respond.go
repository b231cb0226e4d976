// Package respond writes JSON responses. Error bodies use the GraphQL
// {"errors":[...]} envelope on every route so clients parse one shape.
// Internal failures are logged with secrets masked and never echoed to clients.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the envelope written by Error and SafeError.
type ErrorBody struct {
	Errors []ErrorEntry `json:"errors"`
}

// ErrorEntry is one error message.
type ErrorEntry struct {
	Message string `json:"message"`
}

// JSON writes v as the response body with the given status. A nil v
// writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes msg in the error envelope.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Errors: []ErrorEntry{{Message: msg}}})
}

// SafeError writes err in the error envelope. Below 500 the message is
// passed through; from 500 up the client sees "Internal server error" and
// the masked error is logged instead. A nil err writes nothing.
func SafeError(w http.ResponseWriter, code int, err error) {
	switch {
	case err == nil:
		return
	case code < http.StatusInternalServerError:
		Error(w, code, err.Error())
	default:
		slog.Default().Error("internal server error",
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
		Error(w, code, "Internal server error")
	}
}
