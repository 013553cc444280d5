package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) (int64, error) {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO orders (
            order_number, client_id, status, cell_id, employee_id,
            received_at, issued_at, expiry_date, total_amount, track_number, notes
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `, order.OrderNumber, order.ClientID, order.Status, order.CellID, order.EmployeeID,
		order.ReceivedAt, order.IssuedAt, order.ExpiryDate, order.TotalAmount, order.TrackNumber, order.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicateOrder
		}
		return 0, err
	}
	return id, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDTx locks the order row for the duration of the transaction so
// concurrent transitions on the same order serialize.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error) {
	var order repository.Order
	err := tx.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.db.Get(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM orders WHERE order_number = $1)", orderNumber)
	return exists, err
}

func (r *OrderRepo) UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	_, err := tx.Exec(ctx, `
        UPDATE orders
        SET
            status = $1,
            cell_id = $2,
            employee_id = $3,
            issued_at = $4
        WHERE id = $5
    `, order.Status, order.CellID, order.EmployeeID, order.IssuedAt, order.ID)
	return err
}

func (r *OrderRepo) Search(ctx context.Context, query string, byPhone bool) ([]*repository.OrderSummary, error) {
	pattern := "%" + query + "%"

	sql := `
        SELECT o.id, o.order_number, u.full_name AS client_name, c.cell_number, o.status, o.received_at
        FROM orders o
        LEFT JOIN cells c ON o.cell_id = c.id
        LEFT JOIN users u ON o.client_id = u.id
    `
	if byPhone {
		sql += " WHERE u.phone ILIKE $1"
	} else {
		sql += " WHERE o.order_number ILIKE $1"
	}
	sql += " ORDER BY o.received_at DESC"

	var rows []*repository.OrderSummary
	if err := r.db.Select(ctx, &rows, sql, pattern); err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	return rows, nil
}

func (r *OrderRepo) Stats(ctx context.Context) (*repository.OrderStats, error) {
	var stats repository.OrderStats
	err := r.db.Get(ctx, &stats, `
        SELECT
            COUNT(*) FILTER (WHERE received_at::date = CURRENT_DATE)          AS today_orders,
            COUNT(*) FILTER (WHERE issued_at::date = CURRENT_DATE)           AS today_issued,
            COUNT(*) FILTER (WHERE status IN ('received', 'stored'))         AS active_orders
        FROM orders
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}
	return &stats, nil
}

func (r *OrderRepo) GetActive(ctx context.Context) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT * FROM orders
        WHERE status IN ('received', 'stored')
        ORDER BY received_at ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get active orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepo) GetOverdue(ctx context.Context, asOf time.Time) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT * FROM orders
        WHERE status IN ('received', 'stored') AND expiry_date < $1
        ORDER BY expiry_date ASC
    `, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue orders: %w", err)
	}
	return orders, nil
}
