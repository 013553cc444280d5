package storage

import (
	"context"
	"fmt"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

// ReceiptNumber composes the receipt identifier from the order id and the
// issue timestamp. The status state machine allows at most one issue per
// order, so the second-resolution timestamp cannot collide; a unique index
// on receipt_number backs that up.
func ReceiptNumber(orderID int64, issuedAt time.Time) string {
	return fmt.Sprintf("RCP-%d-%s", orderID, issuedAt.UTC().Format("20060102150405"))
}

// issueReceipt writes the immutable proof-of-handover record inside the
// issue transaction.
func (s *PVZStorage) issueReceipt(ctx context.Context, tx db.Tx, order *repository.Order, cellNumber *string, issuedAt time.Time) (string, error) {
	number := ReceiptNumber(order.ID, issuedAt)
	_, err := s.repos.Receipts.CreateTx(ctx, tx, &repository.Receipt{
		OrderID:       order.ID,
		ReceiptNumber: number,
		TotalAmount:   order.TotalAmount,
		CellNumber:    cellNumber,
		CreatedAt:     issuedAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create receipt: %w", err)
	}
	return number, nil
}
