// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/modflag/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedOwner inserts a test owner and returns its ID.
func seedOwner(t *testing.T, db *sql.DB, id, name string, admin bool) string {
	t.Helper()
	if id == "" {
		id = "USER-001"
	}
	if name == "" {
		name = "Test Owner"
	}
	adminInt := 0
	if admin {
		adminInt = 1
	}
	_, err := db.Exec("INSERT INTO owners (id, name, username, email, admin) VALUES (?, ?, ?, ?, ?)",
		id, name, "user-"+id, id+"@example.com", adminInt)
	if err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}
	return id
}

// seedInboxMessage inserts a test inbox message at position into ownerID's inbox.
func seedInboxMessage(t *testing.T, db *sql.DB, ownerID, id, authorID, text string, position int) string {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO inbox_messages (owner_id, id, position, author_id, author_name, author_email, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '2026-01-02T03:04:05Z')`,
		ownerID, id, position, authorID, "Author "+authorID, authorID+"@example.com", text,
	)
	if err != nil {
		t.Fatalf("failed to seed inbox message: %v", err)
	}
	return id
}
