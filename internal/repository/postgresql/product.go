package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type ProductRepo struct {
	db db.DB
}

func NewProductRepo(db db.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetByArticle(ctx context.Context, article string) (*repository.Product, error) {
	var product repository.Product
	err := r.db.Get(ctx, &product, "SELECT * FROM products WHERE article = $1", article)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) CreateItemTx(ctx context.Context, tx db.Tx, item *repository.OrderItem) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)
    `, item.OrderID, item.ProductID, item.Quantity, item.Price)
	return err
}
