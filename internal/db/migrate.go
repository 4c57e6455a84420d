package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies all schema migrations. Statements are written to be safe
// to re-run; ALTER TABLE duplicates are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_orders (
		number         TEXT PRIMARY KEY CHECK(length(number) = 7),
		control_number TEXT NOT NULL DEFAULT '' CHECK(control_number = '' OR length(control_number) = 8),
		open           INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS verb_codes (
		keyword       TEXT PRIMARY KEY,
		code          INTEGER NOT NULL,
		requires_noun INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS noun_codes (
		keyword TEXT PRIMARY KEY,
		code    INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_orders_open ON work_orders(open)`,
}
