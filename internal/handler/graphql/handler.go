package graphql

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"sports-cms/internal/handler/http/respond"
	"sports-cms/internal/observability/logging"
)

// request is the standard GraphQL-over-HTTP request body.
type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves a schema over HTTP. POST accepts a JSON body; GET reads
// query, operationName and variables from the URL and refuses mutations.
type Handler struct {
	Schema *graphqlgo.Schema
	Logger *slog.Logger
}

// NewHandler creates a Handler for schema.
func NewHandler(schema *graphqlgo.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Schema: schema, Logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithTrace(ctx, logging.WithRequestID(ctx, h.Logger))
	ctx = logging.WithLogger(ctx, logger)

	var req request
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				writeError(w, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}
		if selectsMutation(req.Query, req.OperationName) {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "mutations require POST")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp := h.Schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		logger.Debug("graphql response carries errors",
			slog.String("operation_name", req.OperationName),
			slog.Int("errors", len(resp.Errors)))
	}
	respond.JSON(w, http.StatusOK, resp)
}

// selectsMutation reports whether the operation that would run for
// operationName is a mutation. Documents that fail to parse select nothing;
// execution reports the syntax error.
func selectsMutation(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || doc == nil {
		return false
	}
	op := doc.Operations.ForName(operationName)
	return op != nil && op.Operation == ast.Mutation
}

func writeError(w http.ResponseWriter, code int, msg string) {
	respond.Error(w, code, msg)
}
