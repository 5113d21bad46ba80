package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_owners_and_inbox_messages",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_version_to_owners",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration",
			"event", "db_migration_started",
			"module", "db",
			"layer", "infrastructure",
			"version", migration.Version,
			"name", migration.Name,
		)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// migrationV1 creates the owners table and their nested inbox messages
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS owners (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create owners table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS inbox_messages (
			owner_id TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			author_id TEXT NOT NULL DEFAULT '',
			author_name TEXT NOT NULL DEFAULT '',
			author_username TEXT NOT NULL DEFAULT '',
			author_email TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT '',
			flags TEXT NOT NULL DEFAULT '{}',
			flag_count INTEGER NOT NULL DEFAULT 0,
			reported INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (owner_id, id),
			FOREIGN KEY (owner_id) REFERENCES owners(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create inbox_messages table: %w", err)
	}

	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_inbox_messages_owner_position ON inbox_messages(owner_id, position)")
	if err != nil {
		return fmt.Errorf("failed to create inbox_messages index: %w", err)
	}
	return nil
}

// migrationV2 adds the optimistic concurrency token to owners
func migrationV2(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('owners') WHERE name = 'version'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect owners table: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = tx.Exec("ALTER TABLE owners ADD COLUMN version INTEGER NOT NULL DEFAULT 0")
	if err != nil {
		return fmt.Errorf("failed to add version column: %w", err)
	}
	return nil
}
