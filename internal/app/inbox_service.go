package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

// InboxServiceImpl implements the InboxService interface.
type InboxServiceImpl struct {
	ownerRepo secondary.OwnerRepository
	now       func() time.Time
	newID     func() string
}

// NewInboxService creates a new InboxService with injected dependencies.
func NewInboxService(ownerRepo secondary.OwnerRepository) *InboxServiceImpl {
	return &InboxServiceImpl{
		ownerRepo: ownerRepo,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// CreateOwner creates a new inbox owner.
func (s *InboxServiceImpl) CreateOwner(ctx context.Context, req primary.CreateOwnerRequest) (*primary.Owner, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, &primary.ValidationError{Field: "id"}
	}

	record := &secondary.OwnerRecord{
		ID:       strings.TrimSpace(req.ID),
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Language: req.Language,
		Admin:    req.Admin,
	}
	if err := s.ownerRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: create owner %s: %w", primary.ErrPersistence, record.ID, err)
	}

	return recordToOwner(record), nil
}

// GetOwner retrieves an owner by ID.
func (s *InboxServiceImpl) GetOwner(ctx context.Context, ownerID string) (*primary.Owner, error) {
	record, err := loadOwner(ctx, s.ownerRepo, ownerID)
	if err != nil {
		return nil, err
	}
	return recordToOwner(record), nil
}

// PostMessage appends a message from req.AuthorID to req.OwnerID's inbox.
func (s *InboxServiceImpl) PostMessage(ctx context.Context, req primary.PostMessageRequest) (*primary.InboxMessage, error) {
	switch {
	case strings.TrimSpace(req.OwnerID) == "":
		return nil, &primary.ValidationError{Field: "ownerId"}
	case strings.TrimSpace(req.AuthorID) == "":
		return nil, &primary.ValidationError{Field: "authorId"}
	case strings.TrimSpace(req.Text) == "":
		return nil, &primary.ValidationError{Field: "text"}
	}

	author, err := loadOwner(ctx, s.ownerRepo, req.AuthorID)
	if err != nil {
		return nil, err
	}
	owner, err := loadOwner(ctx, s.ownerRepo, req.OwnerID)
	if err != nil {
		return nil, err
	}

	msg := &secondary.InboxMessageRecord{
		ID:             s.newID(),
		OwnerID:        owner.ID,
		AuthorID:       author.ID,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		AuthorEmail:    author.Email,
		Text:           req.Text,
		CreatedAt:      s.now().Format(time.RFC3339),
	}
	owner.Messages = append(owner.Messages, msg)
	owner.MarkModified(secondary.PathInboxMessages)

	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, fmt.Errorf("%w: save owner %s: %w", primary.ErrPersistence, owner.ID, err)
	}

	return recordToInboxMessage(msg), nil
}

// ListMessages lists the messages in an owner's inbox.
func (s *InboxServiceImpl) ListMessages(ctx context.Context, ownerID string) ([]*primary.InboxMessage, error) {
	owner, err := loadOwner(ctx, s.ownerRepo, ownerID)
	if err != nil {
		return nil, err
	}

	messages := make([]*primary.InboxMessage, len(owner.Messages))
	for i, m := range owner.Messages {
		messages[i] = recordToInboxMessage(m)
	}
	return messages, nil
}

// Helper methods

// loadOwner fetches an owner, mapping storage errors onto the primary error kinds.
func loadOwner(ctx context.Context, repo secondary.OwnerRepository, ownerID string) (*secondary.OwnerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner, err := repo.GetByID(ctx, ownerID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("%w: owner %s", primary.ErrNotFound, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load owner %s: %w", primary.ErrPersistence, ownerID, err)
	}
	return owner, nil
}

func recordToOwner(r *secondary.OwnerRecord) *primary.Owner {
	return &primary.Owner{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		Language:     r.Language,
		Admin:        r.Admin,
		MessageCount: len(r.Messages),
	}
}

func recordToInboxMessage(r *secondary.InboxMessageRecord) *primary.InboxMessage {
	flags := make(map[string]bool, len(r.Flags))
	for id, v := range r.Flags {
		flags[id] = v
	}
	return &primary.InboxMessage{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		AuthorID:       r.AuthorID,
		AuthorName:     r.AuthorName,
		AuthorUsername: r.AuthorUsername,
		AuthorEmail:    r.AuthorEmail,
		Text:           r.Text,
		CreatedAt:      r.CreatedAt,
		Flags:          flags,
		FlagCount:      r.FlagCount,
		Reported:       r.Reported,
	}
}

// Ensure InboxServiceImpl implements the interface
var _ primary.InboxService = (*InboxServiceImpl)(nil)
