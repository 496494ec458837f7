package publisher

import (
	"context"
	"log/slog"

	"veridoc/pkg/platform/audit"
)

// Log is the fallback publisher for deployments without kafka: events go
// to the structured log only.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log-only publisher.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Publish writes the event as one structured log line.
func (l *Log) Publish(ctx context.Context, event audit.Event) error {
	l.logger.InfoContext(ctx, "audit",
		"audit_id", event.ID,
		"action", event.Action,
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"occurred_at", event.OccurredAt,
		"details", event.Details,
	)
	return nil
}

// Close is a no-op for the log publisher.
func (l *Log) Close() {}
