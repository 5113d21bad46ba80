package app

import (
	"context"
	"log/slog"

	"github.com/example/modflag/internal/core/effects"
	"github.com/example/modflag/internal/core/flag"
	"github.com/example/modflag/internal/ctxutil"
	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

// ChatReporter is the notification step shared by every chat reporting
// variant (inbox, group, ...). Variants call it first and then attach their
// own channels using the returned Notice.
type ChatReporter interface {
	Notify(ctx context.Context, conv flag.Conversation, msg *secondary.InboxMessageRecord, reporter primary.Reporter) (*Notice, error)
}

// Notice is what the shared notify step hands back to the variant.
type Notice struct {
	AuthorEmail string
	Variables   []effects.TemplateVar // Shared MESSAGE_*, REPORTER_* and AUTHOR_* variables
}

// BaseChatReporter is the default ChatReporter: it emits the base flag alert
// and builds the shared email variables.
type BaseChatReporter struct {
	executor EffectExecutor
	logger   *slog.Logger
}

// NewBaseChatReporter creates a new BaseChatReporter with injected dependencies.
func NewBaseChatReporter(executor EffectExecutor, logger *slog.Logger) *BaseChatReporter {
	return &BaseChatReporter{
		executor: executor,
		logger:   resolveLogger(logger),
	}
}

// Notify emits the base alert for msg. Failures propagate unchanged.
func (r *BaseChatReporter) Notify(ctx context.Context, conv flag.Conversation, msg *secondary.InboxMessageRecord, reporter primary.Reporter) (*Notice, error) {
	info := messageInfo(msg)

	alert := flag.PlanBaseAlert(flag.AlertContext{
		Conversation: conv,
		ReporterID:   reporter.ID,
		Message:      info,
		FlagCount:    msg.FlagCount,
	})
	if err := r.executor.Execute(ctx, []effects.Effect{alert}); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "chat message flagged",
		"event", "chat_message_flagged",
		"module", "chat-reporting",
		"layer", "application",
		"conversation_type", conv.Type,
		"message_id", msg.ID,
		"reporter_id", reporter.ID,
		"actor", ctxutil.ActorFromContext(ctx),
		"request_id", ctxutil.RequestIDFromContext(ctx),
		"flag_count", msg.FlagCount,
	)

	return &Notice{
		AuthorEmail: msg.AuthorEmail,
		Variables:   flag.SharedVariables(reporterPerson(reporter), info),
	}, nil
}

func reporterPerson(r primary.Reporter) flag.Person {
	return flag.Person{
		ID:       r.ID,
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Language: r.Language,
	}
}

func messageInfo(m *secondary.InboxMessageRecord) flag.MessageInfo {
	return flag.MessageInfo{
		ID:        m.ID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		Author: flag.Person{
			ID:       m.AuthorID,
			Name:     m.AuthorName,
			Username: m.AuthorUsername,
			Email:    m.AuthorEmail,
		},
	}
}

// Ensure BaseChatReporter implements the interface
var _ ChatReporter = (*BaseChatReporter)(nil)
