// Package flag contains the pure business logic for flagging inbox messages.
// Guards are pure functions that evaluate preconditions without side effects,
// and the Apply* functions compute the next flag state without touching storage.
package flag

import "fmt"

// DefaultEscalationFlagCount is the flag count forced by an administrator flag.
// Any value above the public visibility threshold works; 5 is the historical one.
const DefaultEscalationFlagCount = 5

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// State is the flag-related portion of an inbox message.
type State struct {
	Flags     map[string]bool
	FlagCount int
	Reported  bool
}

// FlagContext provides context for flag guards and transitions.
type FlagContext struct {
	MessageID  string
	ReporterID string
	Admin      bool

	// EscalationCount overrides DefaultEscalationFlagCount when > 0.
	EscalationCount int
}

// ResolveOwnerContext provides context for choosing whose inbox is searched.
type ResolveOwnerContext struct {
	RequesterID  string
	Admin        bool
	TargetUserID string // Optional - only honored for admins
}

// ResolveOwnerID returns the id of the effective inbox owner.
// Rules:
// - Admins acting on behalf of another user address that user's inbox
// - Everyone else addresses their own inbox
func ResolveOwnerID(ctx ResolveOwnerContext) string {
	if ctx.Admin && ctx.TargetUserID != "" {
		return ctx.TargetUserID
	}
	return ctx.RequesterID
}

// HasFlagged reports whether reporterID already flagged the message.
func (s State) HasFlagged(reporterID string) bool {
	return s.Flags[reporterID]
}

// CanFlagMessage evaluates whether the reporter can flag the message.
// Rules:
// - A reporter may flag a message once
// - Admins may always flag again (to force escalation)
func CanFlagMessage(state State, ctx FlagContext) GuardResult {
	if state.HasFlagged(ctx.ReporterID) && !ctx.Admin {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("message %s already reported by %s", ctx.MessageID, ctx.ReporterID),
		}
	}

	return GuardResult{Allowed: true}
}

// ApplyFlag returns the state after ctx.ReporterID flags the message.
// The input state is not mutated.
func ApplyFlag(state State, ctx FlagContext) State {
	next := state.clone()
	next.Flags[ctx.ReporterID] = true

	if ctx.Admin {
		next.FlagCount = ctx.escalationCount()
		return next
	}

	next.FlagCount++
	return next
}

// MarkReported returns the state with the terminal reported marker set.
func MarkReported(state State) State {
	next := state.clone()
	next.Reported = true
	return next
}

func (ctx FlagContext) escalationCount() int {
	if ctx.EscalationCount > 0 {
		return ctx.EscalationCount
	}
	return DefaultEscalationFlagCount
}

func (s State) clone() State {
	flags := make(map[string]bool, len(s.Flags)+1)
	for id, v := range s.Flags {
		flags[id] = v
	}
	return State{
		Flags:     flags,
		FlagCount: s.FlagCount,
		Reported:  s.Reported,
	}
}
