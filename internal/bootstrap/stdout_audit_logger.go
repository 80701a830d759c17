package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes lifecycle audit events through the global zap
// logger. Request-level auditing is the workflow history log's job; this
// one only covers process events like startup and shutdown.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("at", time.Now().UTC().Format(time.RFC3339)),
		zap.Any("meta", entry.Meta),
	)
}
