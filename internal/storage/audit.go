package storage

import (
	"context"
	"encoding/json"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

// RecordAudit persists an audit entry and enqueues it to the outbox so it
// reaches the audit topic. Used for batch-level events (import runs,
// retention sweeps) that happen outside a single order transaction. The log
// row and the outbox task commit together, so the local trail and the Kafka
// trail never diverge.
func (s *PVZStorage) RecordAudit(ctx context.Context, userID *int64, action, entityType string, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	err = s.repos.Audit.CreateTx(ctx, tx, &repository.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		Details:    raw,
	})
	if err != nil {
		return err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  s.now(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		Details:    details,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
