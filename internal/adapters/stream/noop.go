package stream

import (
	"context"
	"log/slog"

	"github.com/example/modflag/internal/ports/secondary"
)

// LogPublisher implements secondary.AlertPublisher when no Redis is configured.
// Alerts are written to the log instead of a stream.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// PublishFlagAlert logs alert.
func (p *LogPublisher) PublishFlagAlert(ctx context.Context, alert secondary.FlagAlert) error {
	p.logger.InfoContext(ctx, "flag alert",
		"event", "flag_alert_logged",
		"module", "stream",
		"layer", "adapter",
		"alert_id", alert.ID,
		"conversation_type", alert.ConversationType,
		"message_id", alert.MessageID,
		"author_id", alert.AuthorID,
		"reporter_id", alert.ReporterID,
		"flag_count", alert.FlagCount,
	)
	return nil
}

var _ secondary.AlertPublisher = (*LogPublisher)(nil)
