package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent records a state change attempted on behalf of an account.
type AuditEvent struct {
	Action       string
	ActorID      string
	ResourceType string
	ResourceID   string
	Result       string
	Details      map[string]any
}

// LogAudit writes e with the "Audit event" message and audit.* fields. Failures are
// logged at warn level so they surface in default alerting.
func LogAudit(ctx context.Context, e AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", e.Action),
		zap.String("audit.actor_id", e.ActorID),
		zap.String("audit.resource_type", e.ResourceType),
		zap.String("audit.result", e.Result),
	}
	if e.ResourceID != "" {
		fields = append(fields, zap.String("audit.resource_id", e.ResourceID))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", e.Details))
	}

	logger := LoggerFromContext(ctx)
	if e.Result == AuditFailure {
		logger.Warn("Audit event", fields...)
		return
	}
	logger.Info("Audit event", fields...)
}
