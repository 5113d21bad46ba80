// Package stream publishes base flag alerts onto a Redis stream.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/modflag/internal/ports/secondary"
)

// DefaultStream is the stream flag alerts are appended to.
const DefaultStream = "moderation_flags"

// Adder is the subset of the redis client the publisher needs.
type Adder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// AlertPublisher implements secondary.AlertPublisher with XADD.
type AlertPublisher struct {
	client Adder
	stream string
	logger *slog.Logger
}

// NewAlertPublisher creates a publisher appending to stream (DefaultStream if empty).
func NewAlertPublisher(client Adder, stream string, logger *slog.Logger) *AlertPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &AlertPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// PublishFlagAlert appends alert to the stream.
func (p *AlertPublisher) PublishFlagAlert(ctx context.Context, alert secondary.FlagAlert) error {
	fields := map[string]any{
		"alert_id":          alert.ID,
		"conversation_type": alert.ConversationType,
		"message_id":        alert.MessageID,
		"author_id":         alert.AuthorID,
		"reporter_id":       alert.ReporterID,
		"flag_count":        alert.FlagCount,
	}
	if alert.ConversationID != "" {
		fields["conversation_id"] = alert.ConversationID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields["trace_id"] = sc.TraceID().String()
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Result()
	if err != nil {
		return fmt.Errorf("publish flag alert: %w", err)
	}

	p.logger.InfoContext(ctx, "flag alert published",
		"event", "flag_alert_published",
		"module", "stream",
		"layer", "adapter",
		"stream", p.stream,
		"entry_id", id,
		"alert_id", alert.ID,
		"message_id", alert.MessageID,
	)
	return nil
}

// Ensure AlertPublisher implements the interface.
var _ secondary.AlertPublisher = (*AlertPublisher)(nil)
