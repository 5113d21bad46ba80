package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/modflag/internal/core/effects"
	"github.com/example/modflag/internal/core/flag"
	"github.com/example/modflag/internal/ctxutil"
	"github.com/example/modflag/internal/logger"
	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

// InboxFlagOptions configures the inbox flag workflow.
type InboxFlagOptions struct {
	Recipients          []effects.Recipient
	TemplateID          string // Optional - defaults to flag.FlagReportTemplate
	EscalationCount     int    // Optional - defaults to flag.DefaultEscalationFlagCount
	StrictNotifications bool   // Propagate email/chat-ops failures and leave the message unreported
}

// InboxFlagServiceImpl implements the FlagService interface for inbox messages.
type InboxFlagServiceImpl struct {
	ownerRepo secondary.OwnerRepository
	reporter  ChatReporter
	executor  EffectExecutor
	opts      InboxFlagOptions
	logger    *slog.Logger
}

// NewInboxFlagService creates a new InboxFlagService with injected dependencies.
// The recipient list is copied; later changes to opts.Recipients have no effect.
func NewInboxFlagService(
	ownerRepo secondary.OwnerRepository,
	reporter ChatReporter,
	executor EffectExecutor,
	opts InboxFlagOptions,
	logger *slog.Logger,
) *InboxFlagServiceImpl {
	recipients := make([]effects.Recipient, len(opts.Recipients))
	copy(recipients, opts.Recipients)
	opts.Recipients = recipients

	return &InboxFlagServiceImpl{
		ownerRepo: ownerRepo,
		reporter:  reporter,
		executor:  executor,
		opts:      opts,
		logger:    resolveLogger(logger),
	}
}

// FlagInboxMessage runs validate, flag, notify and mark-reported in order.
// Any failure aborts the later stages. Failures after the flag was persisted
// are returned as *primary.EscalationError.
func (s *InboxFlagServiceImpl) FlagInboxMessage(ctx context.Context, req primary.FlagRequest) (*primary.InboxMessage, error) {
	sc := logger.StartSpan(ctx, "inbox_flag", trace.WithAttributes(
		attribute.String("message.id", req.MessageID),
		attribute.String("reporter.id", req.Reporter.ID),
		attribute.Bool("reporter.admin", req.Reporter.Admin),
	))
	defer sc.End()
	ctx = sc.Context()

	msg, err := s.flag(ctx, req)
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}
	return recordToInboxMessage(msg), nil
}

func (s *InboxFlagServiceImpl) flag(ctx context.Context, req primary.FlagRequest) (*secondary.InboxMessageRecord, error) {
	owner, msg, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.flagMessage(ctx, owner, msg, req.Reporter); err != nil {
		return nil, err
	}

	// The flag is persisted from here on; nothing below rolls it back.
	if err := s.notify(ctx, msg, req); err != nil {
		return nil, s.incomplete(ctx, msg, primary.StageNotify, err)
	}

	if err := s.markReported(ctx, owner, msg); err != nil {
		return nil, s.incomplete(ctx, msg, primary.StageMarkReported, err)
	}

	s.logger.InfoContext(ctx, "inbox message reported",
		"event", "inbox_message_reported",
		"module", "chat-reporting/inbox",
		"layer", "application",
		"owner_id", owner.ID,
		"message_id", msg.ID,
		"reporter_id", req.Reporter.ID,
		"actor", ctxutil.ActorFromContext(ctx),
		"request_id", ctxutil.RequestIDFromContext(ctx),
		"flag_count", msg.FlagCount,
	)
	return msg, nil
}

// validate resolves the effective inbox owner and the target message.
func (s *InboxFlagServiceImpl) validate(ctx context.Context, req primary.FlagRequest) (*secondary.OwnerRecord, *secondary.InboxMessageRecord, error) {
	sc := logger.StartSpan(ctx, "inbox_flag.validate")
	defer sc.End()
	ctx = sc.Context()

	messageID := strings.TrimSpace(req.MessageID)
	if messageID == "" {
		err := &primary.ValidationError{Field: "messageId"}
		sc.RecordError(err)
		return nil, nil, err
	}

	ownerID := flag.ResolveOwnerID(flag.ResolveOwnerContext{
		RequesterID:  req.Reporter.ID,
		Admin:        req.Reporter.Admin,
		TargetUserID: strings.TrimSpace(req.TargetUserID),
	})

	owner, err := loadOwner(ctx, s.ownerRepo, ownerID)
	if err != nil {
		sc.RecordError(err)
		return nil, nil, err
	}

	msg := owner.FindMessage(messageID)
	if msg == nil {
		err := fmt.Errorf("%w: message %s in inbox of %s", primary.ErrNotFound, messageID, owner.ID)
		sc.RecordError(err)
		return nil, nil, err
	}

	return owner, msg, nil
}

// flagMessage applies the reporter's flag and persists it.
func (s *InboxFlagServiceImpl) flagMessage(ctx context.Context, owner *secondary.OwnerRecord, msg *secondary.InboxMessageRecord, reporter primary.Reporter) error {
	sc := logger.StartSpan(ctx, "inbox_flag.flag")
	defer sc.End()
	ctx = sc.Context()

	flagCtx := flag.FlagContext{
		MessageID:       msg.ID,
		ReporterID:      reporter.ID,
		Admin:           reporter.Admin,
		EscalationCount: s.opts.EscalationCount,
	}

	if result := flag.CanFlagMessage(stateOf(msg), flagCtx); !result.Allowed {
		err := fmt.Errorf("%w: %s", primary.ErrAlreadyReported, result.Reason)
		sc.RecordError(err)
		return err
	}

	err := s.updateMessageAndSave(ctx, owner, msg, func(st flag.State) flag.State {
		return flag.ApplyFlag(st, flagCtx)
	})
	if err != nil {
		sc.RecordError(err)
		return err
	}

	s.logger.DebugContext(ctx, "inbox message flag persisted",
		"event", "inbox_message_flag_persisted",
		"module", "chat-reporting/inbox",
		"layer", "application",
		"owner_id", owner.ID,
		"message_id", msg.ID,
		"reporter_id", reporter.ID,
		"flag_count", msg.FlagCount,
	)
	return nil
}

// notify runs the shared notify step, then the inbox email and chat-ops.
func (s *InboxFlagServiceImpl) notify(ctx context.Context, msg *secondary.InboxMessageRecord, req primary.FlagRequest) error {
	sc := logger.StartSpan(ctx, "inbox_flag.notify")
	defer sc.End()
	ctx = sc.Context()

	if err := ctx.Err(); err != nil {
		sc.RecordError(err)
		return err
	}

	conv := flag.PrivateMessages()

	notice, err := s.reporter.Notify(ctx, conv, msg, req.Reporter)
	if err != nil {
		sc.RecordError(err)
		return err
	}

	effs := flag.PlanInboxNotifications(flag.PlanContext{
		Conversation:    conv,
		Reporter:        reporterPerson(req.Reporter),
		Message:         messageInfo(msg),
		SharedVariables: notice.Variables,
		Recipients:      s.opts.Recipients,
		TemplateID:      s.opts.TemplateID,
		UserComment:     req.Comment,
	})

	if err := s.executor.Execute(ctx, effs); err != nil {
		sc.RecordError(err)
		if s.opts.StrictNotifications {
			return err
		}
		s.logger.WarnContext(ctx, "inbox flag notification failed",
			"event", "inbox_flag_notification_failed",
			"module", "chat-reporting/inbox",
			"layer", "application",
			"message_id", msg.ID,
			"reporter_id", req.Reporter.ID,
			"error", err,
		)
	}
	return nil
}

// markReported sets the terminal reported marker and persists it.
func (s *InboxFlagServiceImpl) markReported(ctx context.Context, owner *secondary.OwnerRecord, msg *secondary.InboxMessageRecord) error {
	sc := logger.StartSpan(ctx, "inbox_flag.mark_reported")
	defer sc.End()
	ctx = sc.Context()

	if err := ctx.Err(); err != nil {
		sc.RecordError(err)
		return err
	}

	err := s.updateMessageAndSave(ctx, owner, msg, flag.MarkReported)
	if err != nil {
		sc.RecordError(err)
	}
	return err
}

// updateMessageAndSave applies update to msg in place, marks the inbox
// collection as modified and saves the whole owner record.
func (s *InboxFlagServiceImpl) updateMessageAndSave(ctx context.Context, owner *secondary.OwnerRecord, msg *secondary.InboxMessageRecord, update func(flag.State) flag.State) error {
	next := update(stateOf(msg))
	msg.Flags = next.Flags
	msg.FlagCount = next.FlagCount
	msg.Reported = next.Reported

	owner.MarkModified(secondary.PathInboxMessages)
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return fmt.Errorf("%w: save owner %s: %w", primary.ErrPersistence, owner.ID, err)
	}
	return nil
}

func (s *InboxFlagServiceImpl) incomplete(ctx context.Context, msg *secondary.InboxMessageRecord, stage string, err error) error {
	s.logger.ErrorContext(ctx, "inbox flag escalation incomplete",
		"event", "inbox_flag_escalation_incomplete",
		"module", "chat-reporting/inbox",
		"layer", "application",
		"message_id", msg.ID,
		"stage", stage,
		"error", err,
	)
	return &primary.EscalationError{MessageID: msg.ID, Stage: stage, Err: err}
}

func stateOf(m *secondary.InboxMessageRecord) flag.State {
	return flag.State{
		Flags:     m.Flags,
		FlagCount: m.FlagCount,
		Reported:  m.Reported,
	}
}

// Ensure InboxFlagServiceImpl implements the interface
var _ primary.FlagService = (*InboxFlagServiceImpl)(nil)
