package email

import (
	"context"
	"log/slog"

	"github.com/example/modflag/internal/ports/secondary"
)

// NoopSender implements secondary.EmailSender when no email server is configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

// SendTemplated logs the email that would have been sent.
func (s *NoopSender) SendTemplated(ctx context.Context, recipients []secondary.Recipient, templateID string, vars []secondary.TemplateVar) error {
	s.logger.DebugContext(ctx, "email server not configured, skipping",
		"event", "email_skipped",
		"module", "email",
		"layer", "adapter",
		"template", templateID,
		"recipients", len(recipients),
	)
	return nil
}

var _ secondary.EmailSender = (*NoopSender)(nil)
