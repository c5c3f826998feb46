package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	ddlStatements := []string{
		// settings table: one row per persisted client value
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			encrypted INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}
