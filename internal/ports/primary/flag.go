// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// FlagService defines the primary port for flagging inbox messages.
type FlagService interface {
	// FlagInboxMessage validates, flags, notifies moderators about, and marks
	// as reported a single inbox message. Returns the message in its final state.
	FlagInboxMessage(ctx context.Context, req FlagRequest) (*InboxMessage, error)
}

// Reporter is the acting user behind a flag request.
type Reporter struct {
	ID       string
	Name     string
	Username string
	Email    string
	Language string
	Admin    bool // Elevated privilege: bypasses the duplicate check and forces escalation
}

// FlagRequest contains parameters for flagging an inbox message.
type FlagRequest struct {
	Reporter     Reporter
	MessageID    string
	TargetUserID string // Optional - honored only when Reporter.Admin
	Comment      string // Optional - empty string means no comment
}

// InboxMessage represents an inbox message at the port boundary.
type InboxMessage struct {
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
