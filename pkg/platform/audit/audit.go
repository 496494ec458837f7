// Package audit defines the audit event model and publisher port. Services
// record security-relevant actions (verifications, extractions) through a
// Publisher; deployments choose the kafka or the log-only implementation.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veridoc/pkg/requestcontext"
)

// Event is one audit record. Details carries action-specific fields and
// must be JSON-serializable.
type Event struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	RequestID  string         `json:"request_id,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Details    map[string]any `json:"details,omitempty"`
}

// Publisher delivers audit events to a durable sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NewEvent builds an event stamped with request-scoped metadata from ctx.
func NewEvent(ctx context.Context, action string, details map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		RequestID:  requestcontext.RequestID(ctx),
		ClientIP:   requestcontext.ClientIP(ctx),
		UserAgent:  requestcontext.UserAgent(ctx),
		OccurredAt: requestcontext.Now(ctx),
		Details:    details,
	}
}

// Log publishes an audit event and logs it, tolerating a nil publisher.
// Publish failures are logged, never propagated: audit must not fail the
// user-facing operation.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, action string, details map[string]any) {
	event := NewEvent(ctx, action, details)

	if logger != nil {
		logger.InfoContext(ctx, "audit event",
			"action", action,
			"audit_id", event.ID,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "audit publish failed",
			"action", action,
			"audit_id", event.ID,
			"error", err,
		)
	}
}
