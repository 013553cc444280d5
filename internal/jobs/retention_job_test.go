package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

type fakeRetentionStore struct {
	overdue []*storage.Order
	err     error

	auditAction  string
	auditDetails map[string]any
	auditCalls   int
}

func (s *fakeRetentionStore) OverdueOrders(context.Context) ([]*storage.Order, error) {
	return s.overdue, s.err
}

func (s *fakeRetentionStore) RecordAudit(_ context.Context, _ *int64, action, _ string, details map[string]any) error {
	s.auditCalls++
	s.auditAction = action
	s.auditDetails = details
	return nil
}

func TestSweepRecordsOverdueOrders(t *testing.T) {
	store := &fakeRetentionStore{overdue: []*storage.Order{
		{ID: 4, Status: storage.StatusStored},
		{ID: 11, Status: storage.StatusReceived},
	}}
	job := NewRetentionJob(store, zap.NewNop())

	job.sweep(context.Background())

	require.Equal(t, 1, store.auditCalls)
	assert.Equal(t, "RETENTION_SWEEP", store.auditAction)
	assert.Equal(t, 2, store.auditDetails["overdue_count"])
	assert.Equal(t, []int64{4, 11}, store.auditDetails["order_ids"])
}

func TestSweepSkipsAuditWhenNothingOverdue(t *testing.T) {
	store := &fakeRetentionStore{}
	job := NewRetentionJob(store, zap.NewNop())

	job.sweep(context.Background())
	assert.Zero(t, store.auditCalls)
}

func TestSweepToleratesStoreError(t *testing.T) {
	store := &fakeRetentionStore{err: errors.New("connection reset")}
	job := NewRetentionJob(store, zap.NewNop())

	job.sweep(context.Background())
	assert.Zero(t, store.auditCalls)
}
