package database

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DB is the global database connection
var DB *sql.DB

// Config holds database configuration
type Config struct {
	Path string
}

// Open initializes the database connection and runs migrations
func Open(cfg Config) error {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.Wrap(err, "failed to create database directory")
	}

	var err error
	DB, err = sql.Open("sqlite", cfg.Path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}

	// Test connection
	if err := DB.Ping(); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	if err := migrate(); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// migrate runs all database migrations
func migrate() error {
	// Create migrations table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Run each migration
	for _, m := range migrations {
		if err := runMigration(m); err != nil {
			return errors.Wrapf(err, "migration %s failed", m.name)
		}
	}

	return nil
}

type migration struct {
	name string
	up   string
}

func runMigration(m migration) error {
	// Check if already applied
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already applied
	}

	// Run migration
	if _, err := DB.Exec(m.up); err != nil {
		return err
	}

	// Record migration
	_, err = DB.Exec("INSERT INTO migrations (name) VALUES (?)", m.name)
	return err
}

var migrations = []migration{
	{
		name: "001_create_prefs",
		up: `
			CREATE TABLE prefs (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		name: "002_create_shared_prefs",
		up: `
			-- Cross-device shared namespace: companion wardrobe mirror,
			-- queued outfit suggestions, last-sync marker.
			CREATE TABLE shared_prefs (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		name: "003_create_devices",
		up: `
			CREATE TABLE devices (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				token_hash TEXT NOT NULL UNIQUE,
				paired_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_sync_at DATETIME
			);
			CREATE INDEX idx_devices_token_hash ON devices(token_hash);
		`,
	},
	{
		name: "004_create_consent_audit",
		up: `
			CREATE TABLE consent_audit (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
				action TEXT NOT NULL,
				details TEXT
			);
			CREATE INDEX idx_consent_audit_timestamp ON consent_audit(timestamp);
			CREATE INDEX idx_consent_audit_action ON consent_audit(action);
		`,
	},
}
