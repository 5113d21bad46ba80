// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Recipient is a moderation mailbox that can receive flag reports.
type Recipient struct {
	Email   string
	CanSend bool
}

// TemplateVar is a single named variable handed to a mail template.
type TemplateVar struct {
	Name    string
	Content string
}

// AlertEffect represents the base "message flagged" alert shared by every
// chat reporting variant.
type AlertEffect struct {
	ConversationType string
	ConversationID   string
	MessageID        string
	AuthorID         string
	ReporterID       string
	FlagCount        int
}

func (e AlertEffect) EffectType() string { return "alert" }

// EmailEffect represents a templated transactional email.
type EmailEffect struct {
	Recipients []Recipient
	TemplateID string
	Variables  []TemplateVar
}

func (e EmailEffect) EffectType() string { return "email" }

// ChatOpsEffect represents an inbox flag notification for the moderators'
// chat-ops channel.
type ChatOpsEffect struct {
	AuthorEmail string

	FlaggerID       string
	FlaggerName     string
	FlaggerUsername string
	FlaggerLanguage string

	MessageID             string
	MessageText           string
	MessageAuthorID       string
	MessageAuthorName     string
	MessageAuthorUsername string
	MessageCreatedAt      string

	UserComment string
}

func (e ChatOpsEffect) EffectType() string { return "chatops" }

// CompositeEffect holds multiple effects to be executed together.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
