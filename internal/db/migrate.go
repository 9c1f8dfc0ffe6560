package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; the index+1 is the schema version.
// Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS client_state (
		key        TEXT PRIMARY KEY CHECK(key IN ('token','user')),
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// SchemaVersion returns the number of migrations the binary knows about.
func SchemaVersion() int { return len(migrations) }

// Migrate applies every migration newer than the version recorded in
// PRAGMA user_version.
func Migrate(conn *sql.DB) error {
	var current int
	if err := conn.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: beginning transaction: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: recording version: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: committing: %w", i+1, err)
		}
	}
	return nil
}
