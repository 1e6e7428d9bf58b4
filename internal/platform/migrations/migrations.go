// Package migrations creates the Postgres schema used when STORE_DRIVER=postgres.
// Statements are idempotent and applied in order on every start.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_items (
		seq          BIGSERIAL,
		id           TEXT PRIMARY KEY,
		category     TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL,
		price        DOUBLE PRECISION,
		image        TEXT NOT NULL,
		highlights   TEXT[] NOT NULL DEFAULT '{}',
		is_featured  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS catalog_items_seq_idx ON catalog_items (seq)`,
	`CREATE INDEX IF NOT EXISTS catalog_items_featured_idx ON catalog_items (is_featured) WHERE is_featured`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL CHECK (name <> ''),
		email       TEXT NOT NULL CHECK (email <> ''),
		message     TEXT NOT NULL CHECK (message <> ''),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS contact_submissions_created_at_idx ON contact_submissions (created_at)`,
}

// Apply executes every statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
