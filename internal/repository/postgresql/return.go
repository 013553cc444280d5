package postgresql

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type ReturnRepo struct {
	db db.DB
}

func NewReturnRepo(db db.DB) *ReturnRepo {
	return &ReturnRepo{db: db}
}

func (r *ReturnRepo) CreateTx(ctx context.Context, tx db.Tx, ret *repository.ReturnEntry) (int64, error) {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO returns (order_id, reason, amount, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, ret.OrderID, ret.Reason, ret.Amount, ret.CreatedAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ReturnRepo) GetPaginated(ctx context.Context, page, limit int) ([]*repository.ReturnEntry, error) {
	offset := (page - 1) * limit

	var returns []*repository.ReturnEntry
	err := r.db.Select(ctx, &returns, `
        SELECT * FROM returns
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	return returns, err
}
