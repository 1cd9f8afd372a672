package postgres

import (
	"context"
	"fmt"
)

// schemaStatements bootstrap the tables the crawler reads and writes.
// news.source_url is UNIQUE so concurrent runs cannot store the same article
// twice even if both pass the application-level check.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id           TEXT PRIMARY KEY,
		company_id   TEXT NOT NULL REFERENCES companies(id),
		title        TEXT NOT NULL,
		content      TEXT NOT NULL DEFAULT '',
		summary      TEXT NOT NULL DEFAULT '',
		source_url   TEXT NOT NULL UNIQUE,
		source_name  TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ NOT NULL,
		category     TEXT NOT NULL DEFAULT 'GENERAL',
		is_personnel BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS news_company_published_idx ON news (company_id, published_at DESC)`,
	`CREATE TABLE IF NOT EXISTS crawl_runs (
		id            BIGSERIAL PRIMARY KEY,
		target_url    TEXT NOT NULL,
		status        TEXT NOT NULL CHECK (status IN ('RUNNING', 'SUCCESS', 'FAILED')),
		items_found   INTEGER NOT NULL DEFAULT 0,
		started_at    TIMESTAMPTZ NOT NULL,
		completed_at  TIMESTAMPTZ,
		error_message TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS crawl_runs_started_idx ON crawl_runs (started_at DESC)`,
}

// EnsureSchema creates missing tables and indexes. It is safe to call on
// every start.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
