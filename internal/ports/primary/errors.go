package primary

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the message or the override owner does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReported is returned when a non-admin flags a message twice.
	ErrAlreadyReported = errors.New("message already reported")
	// ErrPersistence wraps storage failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotification wraps notification collaborator failures.
	ErrNotification = errors.New("notification failure")
	// ErrEscalationIncomplete matches every failure that happens after the flag
	// was persisted: the report is recorded but escalation did not finish.
	ErrEscalationIncomplete = errors.New("report recorded, escalation incomplete")
)

// ValidationError reports a required request field that is missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Escalation stages that can fail after the flag is persisted.
const (
	StageNotify       = "notify"
	StageMarkReported = "mark_reported"
)

// EscalationError is returned when a stage after the flag persist fails.
// errors.Is(err, ErrEscalationIncomplete) is always true for it; the cause
// stays reachable through Unwrap.
type EscalationError struct {
	MessageID string
	Stage     string
	Err       error
}

func (e *EscalationError) Error() string {
	return fmt.Sprintf("message %s flagged but %s failed: %v", e.MessageID, e.Stage, e.Err)
}

func (e *EscalationError) Unwrap() error { return e.Err }

func (e *EscalationError) Is(target error) bool {
	return target == ErrEscalationIncomplete
}
