package db

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB used by the persistence adapters.
// It is also satisfied by circuitbreaker.DBCircuitBreaker.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
