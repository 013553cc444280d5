package storage

import "context"

type Product struct {
	ID      int64   `json:"id"`
	Article string  `json:"article"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

func (s *PVZStorage) GetProductByArticle(ctx context.Context, article string) (*Product, error) {
	product, err := s.repos.Products.GetByArticle(ctx, article)
	if err != nil {
		return nil, err
	}
	return &Product{
		ID:      product.ID,
		Article: product.Article,
		Name:    product.Name,
		Price:   product.Price,
	}, nil
}
