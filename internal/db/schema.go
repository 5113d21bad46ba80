package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a missing column fails with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration to migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Owners (users that own an inbox)
CREATE TABLE IF NOT EXISTS owners (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	admin INTEGER NOT NULL DEFAULT 0,
	version INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Inbox messages (nested collection of an owner, ordered by position)
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
);

CREATE INDEX IF NOT EXISTS idx_inbox_messages_owner_position ON inbox_messages(owner_id, position);
`

// InitSchema creates the database schema or upgrades an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Tables without a schema_version predate versioning; migrate them.
	var ownerTables int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='owners'").Scan(&ownerTables)
	if err != nil {
		return err
	}
	if ownerTables > 0 {
		return RunMigrations(db)
	}

	// Completely fresh install - create modern schema directly and mark
	// every migration as applied.
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
