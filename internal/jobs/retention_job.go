package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

// RetentionStore is the slice of storage the retention sweep needs.
type RetentionStore interface {
	OverdueOrders(ctx context.Context) ([]*storage.Order, error)
	RecordAudit(ctx context.Context, userID *int64, action, entityType string, details map[string]any) error
}

// RetentionJob periodically scans for orders kept past their expiry date.
// Overdue orders are not transitioned automatically, an employee decides what
// to do with each one. The job surfaces them through the metrics gauge and
// the audit trail.
type RetentionJob struct {
	store  RetentionStore
	cron   *cron.Cron
	logger *zap.Logger
}

func NewRetentionJob(store RetentionStore, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		store:  store,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the sweep hourly and runs one sweep immediately so the
// gauge is populated right after startup.
func (j *RetentionJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	go j.sweep(context.Background())

	j.cron.Start()
	j.logger.Info("retention job started")
	return nil
}

func (j *RetentionJob) Stop() {
	ctx := j.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		j.logger.Warn("retention job stop timed out")
	}
	j.logger.Info("retention job stopped")
}

func (j *RetentionJob) sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	overdue, err := j.store.OverdueOrders(ctx)
	if err != nil {
		j.logger.Error("retention sweep failed", zap.Error(err))
		return
	}

	metrics.OverdueOrders.Set(float64(len(overdue)))

	if len(overdue) == 0 {
		return
	}

	ids := make([]int64, len(overdue))
	for i, order := range overdue {
		ids[i] = order.ID
	}
	j.logger.Warn("orders kept past expiry", zap.Int64s("order_ids", ids))

	err = j.store.RecordAudit(ctx, nil, "RETENTION_SWEEP", "Order", map[string]any{
		"overdue_count": len(overdue),
		"order_ids":     ids,
	})
	if err != nil {
		j.logger.Error("retention audit failed", zap.Error(err))
	}
}
