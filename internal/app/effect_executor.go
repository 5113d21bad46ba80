// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/modflag/internal/core/effects"
	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

// EffectExecutor interprets and executes notification effects.
// This is the "Imperative Shell" - the only place notification I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// NotificationExecutor implements EffectExecutor against the notification ports.
type NotificationExecutor struct {
	email   secondary.EmailSender
	chatOps secondary.ChatOpsNotifier
	alerts  secondary.AlertPublisher
	newID   func() string
}

// NewNotificationExecutor creates a new NotificationExecutor with injected dependencies.
func NewNotificationExecutor(email secondary.EmailSender, chatOps secondary.ChatOpsNotifier, alerts secondary.AlertPublisher) *NotificationExecutor {
	return &NotificationExecutor{
		email:   email,
		chatOps: chatOps,
		alerts:  alerts,
		newID:   uuid.NewString,
	}
}

// Execute runs every effect in effs concurrently and waits for all of them.
// Failures are joined and wrapped in primary.ErrNotification; one failing
// effect does not stop the others.
func (e *NotificationExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, len(effs))
	var g errgroup.Group
	for i, eff := range effs {
		i, eff := i, eff
		g.Go(func() error {
			if err := e.executeOne(ctx, eff); err != nil {
				errs[i] = fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
			}
			return errs[i]
		})
	}
	if g.Wait() != nil {
		return fmt.Errorf("%w: %w", primary.ErrNotification, errors.Join(errs...))
	}
	return nil
}

func (e *NotificationExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.AlertEffect:
		return e.executeAlert(ctx, typed)
	case effects.EmailEffect:
		return e.executeEmail(ctx, typed)
	case effects.ChatOpsEffect:
		return e.executeChatOps(ctx, typed)
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *NotificationExecutor) executeAlert(ctx context.Context, eff effects.AlertEffect) error {
	return e.alerts.PublishFlagAlert(ctx, secondary.FlagAlert{
		ID:               e.newID(),
		ConversationType: eff.ConversationType,
		ConversationID:   eff.ConversationID,
		MessageID:        eff.MessageID,
		AuthorID:         eff.AuthorID,
		ReporterID:       eff.ReporterID,
		FlagCount:        eff.FlagCount,
	})
}

func (e *NotificationExecutor) executeEmail(ctx context.Context, eff effects.EmailEffect) error {
	recipients := make([]secondary.Recipient, len(eff.Recipients))
	for i, r := range eff.Recipients {
		recipients[i] = secondary.Recipient{Email: r.Email, CanSend: r.CanSend}
	}
	vars := make([]secondary.TemplateVar, len(eff.Variables))
	for i, v := range eff.Variables {
		vars[i] = secondary.TemplateVar{Name: v.Name, Content: v.Content}
	}
	return e.email.SendTemplated(ctx, recipients, eff.TemplateID, vars)
}

func (e *NotificationExecutor) executeChatOps(ctx context.Context, eff effects.ChatOpsEffect) error {
	return e.chatOps.SendInboxFlagNotification(ctx, secondary.InboxFlagNotification{
		AuthorEmail: eff.AuthorEmail,
		Flagger: secondary.Flagger{
			ID:       eff.FlaggerID,
			Name:     eff.FlaggerName,
			Username: eff.FlaggerUsername,
			Language: eff.FlaggerLanguage,
		},
		Message: secondary.FlaggedMessage{
			ID:             eff.MessageID,
			Text:           eff.MessageText,
			AuthorID:       eff.MessageAuthorID,
			AuthorName:     eff.MessageAuthorName,
			AuthorUsername: eff.MessageAuthorUsername,
			CreatedAt:      eff.MessageCreatedAt,
		},
		UserComment: eff.UserComment,
	})
}

// Ensure NotificationExecutor implements the interface
var _ EffectExecutor = (*NotificationExecutor)(nil)
