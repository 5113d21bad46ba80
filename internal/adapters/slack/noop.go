package slack

import (
	"context"
	"log/slog"

	"github.com/example/modflag/internal/ports/secondary"
)

// NoopNotifier implements secondary.ChatOpsNotifier when no webhook is configured.
type NoopNotifier struct {
	logger *slog.Logger
}

// NewNoopNotifier creates a notifier that only logs.
func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopNotifier{logger: logger}
}

// SendInboxFlagNotification logs the notification that would have been posted.
func (n *NoopNotifier) SendInboxFlagNotification(ctx context.Context, notification secondary.InboxFlagNotification) error {
	n.logger.DebugContext(ctx, "slack webhook not configured, skipping",
		"event", "slack_skipped",
		"module", "slack",
		"layer", "adapter",
		"message_id", notification.Message.ID,
	)
	return nil
}

var _ secondary.ChatOpsNotifier = (*NoopNotifier)(nil)
