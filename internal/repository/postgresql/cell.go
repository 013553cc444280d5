package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type CellRepo struct {
	db db.DB
}

func NewCellRepo(db db.DB) *CellRepo {
	return &CellRepo{db: db}
}

func (r *CellRepo) ListFree(ctx context.Context) ([]*repository.StorageCell, error) {
	var cells []*repository.StorageCell
	err := r.db.Select(ctx, &cells, `
        SELECT * FROM cells
        WHERE NOT is_occupied
        ORDER BY cell_number ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to list free cells: %w", err)
	}
	return cells, nil
}

func (r *CellRepo) CountFree(ctx context.Context) (int, error) {
	var count int
	err := r.db.Get(ctx, &count, "SELECT COUNT(*) FROM cells WHERE NOT is_occupied")
	return count, err
}

func (r *CellRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.StorageCell, error) {
	var cell repository.StorageCell
	err := tx.Get(ctx, &cell, "SELECT * FROM cells WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &cell, nil
}

// TryOccupyTx is the single synchronization point for cell assignment: a
// conditional update that flips the cell to occupied only if it is still
// free. Zero rows affected means somebody else got there first.
func (r *CellRepo) TryOccupyTx(ctx context.Context, tx db.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE cells SET is_occupied = TRUE
        WHERE id = $1 AND NOT is_occupied
    `, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseTx is idempotent: releasing an already-free cell affects zero rows
// and is not an error.
func (r *CellRepo) ReleaseTx(ctx context.Context, tx db.Tx, id int64) error {
	_, err := tx.Exec(ctx, "UPDATE cells SET is_occupied = FALSE WHERE id = $1", id)
	return err
}

// FirstFreeTx picks the lowest-numbered free cell, skipping cells locked by
// concurrent assignments.
func (r *CellRepo) FirstFreeTx(ctx context.Context, tx db.Tx) (*repository.StorageCell, error) {
	var cell repository.StorageCell
	err := tx.Get(ctx, &cell, `
        SELECT * FROM cells
        WHERE NOT is_occupied
        ORDER BY cell_number ASC
        LIMIT 1
        FOR UPDATE SKIP LOCKED
    `)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &cell, nil
}
