package server

import (
	"context"
	"time"
)

// AuditLogEntry captures one HTTP request for the audit trail. Entries are
// batched by the AuditManager and handed to an AuditSink.
type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Handler    string    `json:"handler"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	UserID     int64     `json:"user_id,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// AuditSink persists a batch of audit entries. Persist is called from worker
// goroutines and must be safe for concurrent use.
type AuditSink interface {
	Persist(ctx context.Context, batch []AuditLogEntry) error
}
