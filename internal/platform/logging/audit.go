package logging

import (
	"context"

	"go.uber.org/zap"
)

// AuditEvent describes a change to externally visible state, such as the
// Telegram webhook registration.
type AuditEvent struct {
	Action   string         // "webhook.set", "webhook.delete"
	Resource string         // resource type, e.g. "webhook"
	ID       string         // resource identifier
	Result   string         // "success" or "failure"
	Details  map[string]any // optional extra context
}

// LogAuditEvent writes the event through the request-scoped logger under the
// audit.* field namespace.
func LogAuditEvent(ctx context.Context, ev AuditEvent) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", ev.Action),
		zap.String("audit.resource_type", ev.Resource),
		zap.String("audit.resource_id", ev.ID),
		zap.String("audit.result", ev.Result),
		zap.Any("audit.details", ev.Details),
	)
}
