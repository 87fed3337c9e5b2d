package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
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
	`CREATE TABLE IF NOT EXISTS selection_users (
		user_id    TEXT PRIMARY KEY,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS prompt_keys (
		user_id    TEXT NOT NULL REFERENCES selection_users(user_id) ON DELETE CASCADE,
		kind       TEXT NOT NULL CHECK(kind IN ('shown','used')),
		prompt_key TEXT NOT NULL,
		touched_at TEXT NOT NULL,
		PRIMARY KEY (user_id, kind, prompt_key)
	)`,

	`CREATE TABLE IF NOT EXISTS prompt_stats (
		user_id           TEXT NOT NULL REFERENCES selection_users(user_id) ON DELETE CASCADE,
		prompt_key        TEXT NOT NULL,
		shown             INTEGER NOT NULL DEFAULT 0 CHECK(shown >= 0),
		completed         INTEGER NOT NULL DEFAULT 0 CHECK(completed >= 0),
		total_words       INTEGER NOT NULL DEFAULT 0 CHECK(total_words >= 0),
		last_shown_at     TEXT,
		last_completed_at TEXT,
		PRIMARY KEY (user_id, prompt_key)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_selection_users_updated ON selection_users(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_prompt_keys_user_kind ON prompt_keys(user_id, kind)`,
	`CREATE INDEX IF NOT EXISTS idx_prompt_stats_user ON prompt_stats(user_id)`,
}
