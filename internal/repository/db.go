package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the sqlite database and applies
// migrations.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	logger.Info("opening database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("database ready", "path", path)
	return db, nil
}

// runMigrations creates the schema. tx_date and category carry secondary
// indexes; those are the two query axes the list/export paths use.
func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS receipts (
			id TEXT PRIMARY KEY,
			merchant TEXT NOT NULL,
			tx_date TEXT NOT NULL,
			subtotal TEXT,
			tax TEXT,
			total TEXT NOT NULL,
			category TEXT NOT NULL,
			confidence REAL NOT NULL,
			structured_field_count INTEGER NOT NULL DEFAULT 0,
			structured_item_count INTEGER NOT NULL DEFAULT 0,
			needs_review INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS line_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			receipt_id TEXT NOT NULL REFERENCES receipts(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			line_total TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'Other'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_tx_date ON receipts(tx_date)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_category ON receipts(category)`,
		`CREATE INDEX IF NOT EXISTS idx_line_items_receipt ON line_items(receipt_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
