// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConcurrentUpdate is returned by Save when the record changed since it was read.
	ErrConcurrentUpdate = errors.New("record modified concurrently")
)

// PathInboxMessages is the modified-path for an owner's nested inbox collection.
const PathInboxMessages = "inbox.messages"

// OwnerRepository defines the secondary port for inbox owner persistence.
type OwnerRepository interface {
	// Create persists a new owner with an empty inbox.
	Create(ctx context.Context, owner *OwnerRecord) error

	// GetByID retrieves an owner and their inbox by ID.
	// Returns an error wrapping ErrNotFound if the owner does not exist.
	GetByID(ctx context.Context, id string) (*OwnerRecord, error)

	// Save writes the whole owner record back. The inbox collection is only
	// rewritten when PathInboxMessages was marked modified. On success the
	// record's Version is advanced and its modified paths are cleared.
	Save(ctx context.Context, owner *OwnerRecord) error
}

// OwnerRecord represents a user record owning an inbox, as stored in persistence.
type OwnerRecord struct {
	ID       string
	Name     string
	Username string
	Email    string
	Language string
	Admin    bool
	Version  int // Optimistic concurrency token, managed by the repository
	Messages []*InboxMessageRecord

	modified map[string]bool
}

// InboxMessageRecord represents one inbox message as stored in persistence.
type InboxMessageRecord struct {
	ID             string
	OwnerID        string
	AuthorID       string
	AuthorName     string
	AuthorUsername string
	AuthorEmail    string
	Text           string
	CreatedAt      string
	Flags          map[string]bool
	FlagCount      int
	Reported       bool
}

// FindMessage returns the inbox message with the given id, or nil.
func (o *OwnerRecord) FindMessage(id string) *InboxMessageRecord {
	for _, m := range o.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// MarkModified flags a nested path as changed so Save persists it.
func (o *OwnerRecord) MarkModified(path string) {
	if o.modified == nil {
		o.modified = make(map[string]bool)
	}
	o.modified[path] = true
}

// IsModified reports whether path was marked modified since the last save.
func (o *OwnerRecord) IsModified(path string) bool {
	return o.modified[path]
}

// ClearModified resets all modified paths.
func (o *OwnerRecord) ClearModified() {
	o.modified = nil
}
