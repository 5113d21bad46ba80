package primary

import "context"

// InboxService defines the primary port for managing owners and their inboxes.
type InboxService interface {
	// CreateOwner creates a new inbox owner.
	CreateOwner(ctx context.Context, req CreateOwnerRequest) (*Owner, error)

	// GetOwner retrieves an owner by ID.
	GetOwner(ctx context.Context, ownerID string) (*Owner, error)

	// PostMessage delivers a message from one owner into another owner's inbox.
	PostMessage(ctx context.Context, req PostMessageRequest) (*InboxMessage, error)

	// ListMessages lists the messages in an owner's inbox, in order.
	ListMessages(ctx context.Context, ownerID string) ([]*InboxMessage, error)
}

// CreateOwnerRequest contains parameters for creating an owner.
type CreateOwnerRequest struct {
	ID       string
	Name     string
	Username string
	Email    string
	Language string
	Admin    bool
}

// PostMessageRequest contains parameters for posting an inbox message.
type PostMessageRequest struct {
	OwnerID  string
	AuthorID string
	Text     string
}

// Owner represents an inbox owner at the port boundary.
type Owner struct {
	ID           string
	Name         string
	Username     string
	Email        string
	Language     string
	Admin        bool
	MessageCount int
}

// Reporter returns the owner as an acting reporter identity.
func (o *Owner) Reporter() Reporter {
	return Reporter{
		ID:       o.ID,
		Name:     o.Name,
		Username: o.Username,
		Email:    o.Email,
		Language: o.Language,
		Admin:    o.Admin,
	}
}
