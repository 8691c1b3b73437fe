package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all SQLite schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The career_plans row mirrors the persisted plan encoding: one row per
// user, one nullable JSON document per milestone slot.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		username         TEXT PRIMARY KEY,
		interests_values TEXT NOT NULL DEFAULT '',
		work_experience  TEXT NOT NULL DEFAULT '',
		circumstances    TEXT NOT NULL DEFAULT '',
		skills           TEXT NOT NULL DEFAULT '',
		goals            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		last_updated     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS career_plans (
		username           TEXT PRIMARY KEY,
		plan_id            TEXT NOT NULL,
		created_date       TEXT NOT NULL,
		last_updated       TEXT NOT NULL,
		version            INTEGER NOT NULL CHECK(version >= 1),
		overview           TEXT NOT NULL,
		milestone_1_month  TEXT,
		milestone_3_months TEXT,
		milestone_1_year   TEXT,
		milestone_5_years  TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS plan_versions (
		plan_id      TEXT NOT NULL,
		version      INTEGER NOT NULL,
		username     TEXT NOT NULL REFERENCES career_plans(username) ON DELETE CASCADE,
		committed_at TEXT NOT NULL,
		snapshot     TEXT NOT NULL,
		PRIMARY KEY (plan_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_versions_username ON plan_versions(username, committed_at)`,
}
