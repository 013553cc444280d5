package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type ReceiptRepo struct {
	db db.DB
}

func NewReceiptRepo(db db.DB) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

func (r *ReceiptRepo) CreateTx(ctx context.Context, tx db.Tx, receipt *repository.Receipt) (int64, error) {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO receipts (order_id, receipt_number, total_amount, cell_number, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, receipt.OrderID, receipt.ReceiptNumber, receipt.TotalAmount, receipt.CellNumber, receipt.CreatedAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ReceiptRepo) GetByOrderID(ctx context.Context, orderID int64) (*repository.Receipt, error) {
	var receipt repository.Receipt
	err := r.db.Get(ctx, &receipt, "SELECT * FROM receipts WHERE order_id = $1", orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &receipt, nil
}
