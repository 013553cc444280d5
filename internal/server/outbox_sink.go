package server

import (
	"context"
)

// AuditRecorder is the storage-side entry point for audit events.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, userID *int64, action, entityType string, details map[string]any) error
}

// OutboxAuditSink writes HTTP audit batches through the storage audit trail,
// which lands them in the logs table and the outbox for Kafka delivery.
type OutboxAuditSink struct {
	recorder AuditRecorder
}

func NewOutboxAuditSink(recorder AuditRecorder) *OutboxAuditSink {
	return &OutboxAuditSink{recorder: recorder}
}

func (s *OutboxAuditSink) Persist(ctx context.Context, batch []AuditLogEntry) error {
	for _, entry := range batch {
		var userID *int64
		if entry.UserID != 0 {
			id := entry.UserID
			userID = &id
		}

		details := map[string]any{
			"handler":     entry.Handler,
			"method":      entry.Method,
			"path":        entry.Path,
			"status_code": entry.StatusCode,
			"timestamp":   entry.Timestamp,
		}
		if entry.OrderID != "" {
			details["order_id"] = entry.OrderID
		}
		if entry.Request != "" {
			details["request"] = entry.Request
		}
		if entry.Response != "" {
			details["response"] = entry.Response
		}

		if err := s.recorder.RecordAudit(ctx, userID, "HTTP_REQUEST", "http", details); err != nil {
			return err
		}
	}
	return nil
}
