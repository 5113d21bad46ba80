package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/modflag/internal/ports/primary"
)

// FlagAdapter translates the flag command into FlagService calls.
type FlagAdapter struct {
	service primary.FlagService
	out     io.Writer
}

// NewFlagAdapter creates a new FlagAdapter with the given service.
func NewFlagAdapter(service primary.FlagService, out io.Writer) *FlagAdapter {
	return &FlagAdapter{
		service: service,
		out:     out,
	}
}

// Flag reports an inbox message and prints the resulting flag state.
// An incomplete escalation is printed as a warning and still returned.
func (a *FlagAdapter) Flag(ctx context.Context, req primary.FlagRequest) (*primary.InboxMessage, error) {
	msg, err := a.service.FlagInboxMessage(ctx, req)

	var escErr *primary.EscalationError
	if errors.As(err, &escErr) {
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprintf("⚠ Flag on %s recorded, escalation incomplete at %s", escErr.MessageID, escErr.Stage))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to flag message: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Message %s reported\n", msg.ID)
	fmt.Fprintf(a.out, "  Inbox:      %s\n", msg.OwnerID)
	fmt.Fprintf(a.out, "  Author:     %s\n", msg.AuthorID)
	fmt.Fprintf(a.out, "  Flag count: %s\n", color.New(color.FgRed).Sprint(msg.FlagCount))

	return msg, nil
}
