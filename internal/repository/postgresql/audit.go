package postgresql

import (
	"context"
	"fmt"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type AuditRepo struct{}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.AuditLog) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO logs (user_id, action, entity_type, details, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, entry.UserID, entry.Action, entry.EntityType, entry.Details, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
