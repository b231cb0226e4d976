package db

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sports_articles (
    id         UUID PRIMARY KEY,
    title      VARCHAR(255) NOT NULL,
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    deleted_at TIMESTAMPTZ,
    image_url  VARCHAR(500),
    seq        BIGSERIAL NOT NULL
)`,
	// list ordering over active rows
	`CREATE INDEX IF NOT EXISTS idx_sports_articles_active_created_at
    ON sports_articles(created_at DESC, seq DESC) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sports_articles_deleted_at ON sports_articles(deleted_at)`,
}

// SQLite keeps timestamps as fixed-width UTC text so that they sort lexically.
// The implicit rowid provides insertion order.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sports_articles (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TEXT NOT NULL,
    deleted_at TEXT,
    image_url  TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_sports_articles_created_at ON sports_articles(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sports_articles_deleted_at ON sports_articles(deleted_at)`,
}

// MigrateUp creates the sports_articles table and its indexes for the given driver.
// Every statement is idempotent.
func MigrateUp(ctx context.Context, q Querier, driver string) error {
	var stmts []string
	switch driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported database driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
