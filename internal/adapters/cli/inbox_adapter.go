// Package cli contains the adapters that translate CLI operations into
// primary service calls and render the results.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/modflag/internal/ports/primary"
)

// InboxAdapter is a thin adapter that translates CLI operations to InboxService calls.
// It depends only on the InboxService interface, enabling easy testing with mocks.
type InboxAdapter struct {
	service primary.InboxService
	out     io.Writer
}

// NewInboxAdapter creates a new InboxAdapter with the given service.
func NewInboxAdapter(service primary.InboxService, out io.Writer) *InboxAdapter {
	return &InboxAdapter{
		service: service,
		out:     out,
	}
}

// AddOwner creates an inbox owner.
func (a *InboxAdapter) AddOwner(ctx context.Context, req primary.CreateOwnerRequest) (*primary.Owner, error) {
	owner, err := a.service.CreateOwner(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Created owner %s", owner.ID)
	if owner.Admin {
		fmt.Fprint(a.out, color.New(color.FgHiMagenta).Sprint(" [admin]"))
	}
	fmt.Fprintln(a.out)

	return owner, nil
}

// ShowOwner displays details for a single owner.
func (a *InboxAdapter) ShowOwner(ctx context.Context, ownerID string) (*primary.Owner, error) {
	owner, err := a.service.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	fmt.Fprintf(a.out, "\nOwner: %s\n", owner.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", owner.Name)
	fmt.Fprintf(a.out, "Username: %s\n", owner.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", owner.Email)
	fmt.Fprintf(a.out, "Language: %s\n", owner.Language)
	fmt.Fprintf(a.out, "Admin:    %t\n", owner.Admin)
	fmt.Fprintf(a.out, "Messages: %d\n", owner.MessageCount)
	fmt.Fprintln(a.out)

	return owner, nil
}

// Post delivers a message into an owner's inbox.
func (a *InboxAdapter) Post(ctx context.Context, req primary.PostMessageRequest) (*primary.InboxMessage, error) {
	msg, err := a.service.PostMessage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Message %s delivered\n", msg.ID)
	fmt.Fprintf(a.out, "  From: %s\n", msg.AuthorID)
	fmt.Fprintf(a.out, "  To:   %s\n", msg.OwnerID)

	return msg, nil
}

// List lists the messages in an owner's inbox.
func (a *InboxAdapter) List(ctx context.Context, ownerID string) ([]*primary.InboxMessage, error) {
	messages, err := a.service.ListMessages(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	if len(messages) == 0 {
		fmt.Fprintf(a.out, "Inbox of %s is empty.\n", ownerID)
		return messages, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tFLAGS\tSTATUS\tTEXT")
	fmt.Fprintln(w, "--\t----\t-----\t------\t----")

	for _, msg := range messages {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			msg.ID,
			msg.AuthorID,
			msg.FlagCount,
			messageStatus(msg),
			truncate(msg.Text, 50),
		)
	}

	w.Flush()
	return messages, nil
}

func messageStatus(msg *primary.InboxMessage) string {
	switch {
	case msg.Reported:
		return "reported"
	case msg.FlagCount > 0:
		return "flagged"
	default:
		return "-"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
