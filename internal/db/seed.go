package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a regular
// user, an admin and a chatty author, with a few messages in the user's inbox.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	owners := []struct {
		id, name, username, email string
		admin                     bool
	}{
		{"USER-001", "Una", "una", "una@example.com", false},
		{"USER-002", "Bo", "bo", "bo@example.com", false},
		{"ADMIN-001", "Ada", "ada", "ada@example.com", true},
	}
	for _, o := range owners {
		if _, err := database.Exec(
			"INSERT INTO owners (id, name, username, email, language, admin) VALUES (?, ?, ?, ?, 'en', ?)",
			o.id, o.name, o.username, o.email, o.admin,
		); err != nil {
			return fmt.Errorf("seed owners: %w", err)
		}
	}

	messages := []struct{ id, text string }{
		{"MSG-001", "hey, want to join our party?"},
		{"MSG-002", "you are terrible at this game"},
		{"MSG-003", "buy cheap gems at totally-legit.example"},
	}
	for i, m := range messages {
		createdAt := now.Add(time.Duration(i-len(messages)) * time.Minute).Format(time.RFC3339)
		if _, err := database.Exec(
			`INSERT INTO inbox_messages (owner_id, id, position, author_id, author_name, author_username, author_email, text, created_at)
			 VALUES ('USER-001', ?, ?, 'USER-002', 'Bo', 'bo', 'bo@example.com', ?, ?)`,
			m.id, i, m.text, createdAt,
		); err != nil {
			return fmt.Errorf("seed inbox messages: %w", err)
		}
	}

	return nil
}
