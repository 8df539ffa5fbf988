package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the table definitions in creation order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS data_sessions (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		data JSONB NOT NULL,
		columns JSONB NOT NULL,
		column_types JSONB NOT NULL,
		row_count INTEGER NOT NULL,
		analytics JSONB,
		analyzed_columns JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS status_checks (
		id TEXT PRIMARY KEY,
		client_name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
