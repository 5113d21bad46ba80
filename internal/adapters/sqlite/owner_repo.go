// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/modflag/internal/ports/secondary"
)

// OwnerRepository implements secondary.OwnerRepository with SQLite.
// An owner's inbox lives in inbox_messages, ordered by position.
type OwnerRepository struct {
	db *sql.DB
}

// NewOwnerRepository creates a new SQLite owner repository.
func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create persists a new owner together with any messages already on the record.
func (r *OwnerRepository) Create(ctx context.Context, owner *secondary.OwnerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO owners (id, name, username, email, language, admin, version) VALUES (?, ?, ?, ?, ?, ?, 0)",
		owner.ID, owner.Name, owner.Username, owner.Email, owner.Language, boolToInt(owner.Admin),
	)
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}

	if err := insertMessages(ctx, tx, owner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit owner: %w", err)
	}

	owner.Version = 0
	owner.ClearModified()
	return nil
}

// GetByID retrieves an owner and their inbox by ID.
func (r *OwnerRepository) GetByID(ctx context.Context, id string) (*secondary.OwnerRecord, error) {
	var adminInt int

	record := &secondary.OwnerRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, username, email, language, admin, version FROM owners WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.Username, &record.Email, &record.Language, &adminInt, &record.Version)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("owner %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	record.Admin = adminInt == 1

	messages, err := r.listMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Messages = messages

	return record, nil
}

// Save writes the owner back if its version still matches the stored one.
// The inbox is rewritten only when secondary.PathInboxMessages was marked.
func (r *OwnerRepository) Save(ctx context.Context, owner *secondary.OwnerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE owners SET name = ?, username = ?, email = ?, language = ?, admin = ?,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND version = ?`,
		owner.Name, owner.Username, owner.Email, owner.Language, boolToInt(owner.Admin),
		owner.ID, owner.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM owners WHERE id = ?", owner.ID).Scan(&count); err != nil {
			return fmt.Errorf("failed to check owner existence: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("owner %s: %w", owner.ID, secondary.ErrNotFound)
		}
		return fmt.Errorf("owner %s at version %d: %w", owner.ID, owner.Version, secondary.ErrConcurrentUpdate)
	}

	if owner.IsModified(secondary.PathInboxMessages) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM inbox_messages WHERE owner_id = ?", owner.ID); err != nil {
			return fmt.Errorf("failed to clear inbox messages: %w", err)
		}
		if err := insertMessages(ctx, tx, owner); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit owner: %w", err)
	}

	owner.Version++
	owner.ClearModified()
	return nil
}

func (r *OwnerRepository) listMessages(ctx context.Context, ownerID string) ([]*secondary.InboxMessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, author_id, author_name, author_username, author_email, text, created_at, flags, flag_count, reported
		 FROM inbox_messages WHERE owner_id = ? ORDER BY position ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.InboxMessageRecord
	for rows.Next() {
		var (
			flagsJSON   string
			reportedInt int
		)

		record := &secondary.InboxMessageRecord{}
		err := rows.Scan(&record.ID, &record.OwnerID, &record.AuthorID, &record.AuthorName, &record.AuthorUsername,
			&record.AuthorEmail, &record.Text, &record.CreatedAt, &flagsJSON, &record.FlagCount, &reportedInt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inbox message: %w", err)
		}

		if err := json.Unmarshal([]byte(flagsJSON), &record.Flags); err != nil {
			return nil, fmt.Errorf("failed to decode flags of message %s: %w", record.ID, err)
		}
		record.Reported = reportedInt == 1

		messages = append(messages, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inbox messages: %w", err)
	}

	return messages, nil
}

func insertMessages(ctx context.Context, tx *sql.Tx, owner *secondary.OwnerRecord) error {
	for i, m := range owner.Messages {
		flags := m.Flags
		if flags == nil {
			flags = map[string]bool{}
		}
		flagsJSON, err := json.Marshal(flags)
		if err != nil {
			return fmt.Errorf("failed to encode flags of message %s: %w", m.ID, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO inbox_messages (owner_id, id, position, author_id, author_name, author_username, author_email, text, created_at, flags, flag_count, reported)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			owner.ID, m.ID, i, m.AuthorID, m.AuthorName, m.AuthorUsername, m.AuthorEmail, m.Text, m.CreatedAt,
			string(flagsJSON), m.FlagCount, boolToInt(m.Reported),
		)
		if err != nil {
			return fmt.Errorf("failed to insert inbox message %s: %w", m.ID, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure OwnerRepository implements the interface.
var _ secondary.OwnerRepository = (*OwnerRepository)(nil)
