package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS safety_events (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL CHECK(kind IN ('denial','crisis')),
		direction  TEXT NOT NULL DEFAULT ''
		           CHECK(direction IN ('','input','output')),
		categories TEXT NOT NULL DEFAULT '',
		rationale  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_safety_events_kind ON safety_events(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_safety_events_created ON safety_events(created_at)`,

	// Aggregate denial counts per category, maintained in the same
	// transaction as the event insert.
	`CREATE TABLE IF NOT EXISTS safety_category_counts (
		category TEXT PRIMARY KEY,
		denials  INTEGER NOT NULL DEFAULT 0 CHECK(denials >= 0)
	)`,

	// Add the active age band to events for per-band dashboards
	`ALTER TABLE safety_events ADD COLUMN age_band TEXT NOT NULL DEFAULT ''`,
}
