package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type OrderRepository interface {
	GetActive(ctx context.Context) ([]*repository.Order, error)
}

// OrderCache keeps every non-terminal order in memory. Terminal orders
// (issued, returned) are evicted on Set.
type OrderCache struct {
	mu     sync.RWMutex
	cache  map[int64]*repository.Order
	repo   OrderRepository
	logger *zap.Logger
}

func NewOrderCache(repo OrderRepository, logger *zap.Logger) *OrderCache {
	return &OrderCache{
		cache:  make(map[int64]*repository.Order),
		repo:   repo,
		logger: logger,
	}
}

func (c *OrderCache) LoadInitialData(ctx context.Context) error {
	orders, err := c.repo.GetActive(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for _, order := range orders {
		orderCopy := *order
		c.cache[order.ID] = &orderCopy
	}
	size := len(c.cache)
	c.mu.Unlock()

	metrics.OrderCacheItems.Set(float64(size))
	c.logger.Info("order cache primed", zap.Int("orders", size))
	return nil
}

func (c *OrderCache) Get(orderID int64) (*repository.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, found := c.cache[orderID]
	if !found {
		return nil, false
	}
	orderCopy := *order
	return &orderCopy, true
}

func (c *OrderCache) Set(order *repository.Order) {
	if isTerminalStatus(order.Status) {
		c.Delete(order.ID)
		return
	}

	c.mu.Lock()
	orderCopy := *order
	c.cache[order.ID] = &orderCopy
	size := len(c.cache)
	c.mu.Unlock()

	metrics.OrderCacheItems.Set(float64(size))
}

func (c *OrderCache) Delete(orderID int64) {
	c.mu.Lock()
	delete(c.cache, orderID)
	size := len(c.cache)
	c.mu.Unlock()

	metrics.OrderCacheItems.Set(float64(size))
}

func isTerminalStatus(status string) bool {
	return status == "issued" || status == "returned"
}
