package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	db_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	storage_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage/mocks"
)

type storageMocks struct {
	db       *db_mocks.MockDB
	tx       *db_mocks.MockTx
	orders   *storage_mocks.MockOrderRepository
	cells    *storage_mocks.MockCellRepository
	users    *storage_mocks.MockUserRepository
	products *storage_mocks.MockProductRepository
	receipts *storage_mocks.MockReceiptRepository
	returns  *storage_mocks.MockReturnRepository
	history  *storage_mocks.MockHistoryRepository
	audit    *storage_mocks.MockAuditRepository
	outbox   *storage_mocks.MockOutboxTaskRepository
}

var testNow = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

func newTestStorage(t *testing.T) (*PVZStorage, storageMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := storageMocks{
		db:       db_mocks.NewMockDB(ctrl),
		tx:       db_mocks.NewMockTx(ctrl),
		orders:   storage_mocks.NewMockOrderRepository(ctrl),
		cells:    storage_mocks.NewMockCellRepository(ctrl),
		users:    storage_mocks.NewMockUserRepository(ctrl),
		products: storage_mocks.NewMockProductRepository(ctrl),
		receipts: storage_mocks.NewMockReceiptRepository(ctrl),
		returns:  storage_mocks.NewMockReturnRepository(ctrl),
		history:  storage_mocks.NewMockHistoryRepository(ctrl),
		audit:    storage_mocks.NewMockAuditRepository(ctrl),
		outbox:   storage_mocks.NewMockOutboxTaskRepository(ctrl),
	}

	deps := Deps{
		Orders:   m.orders,
		Cells:    m.cells,
		Users:    m.users,
		Products: m.products,
		Receipts: m.receipts,
		Returns:  m.returns,
		History:  m.history,
		Audit:    m.audit,
		Outbox:   m.outbox,
	}

	st := NewPVZStorage(m.db, deps, nil, zap.NewNop())
	st.nowFn = func() time.Time { return testNow }
	return st, m
}

func (m storageMocks) expectTx() {
	m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusReceived, StatusStored, true},
		{StatusReceived, StatusIssued, true},
		{StatusReceived, StatusReturned, true},
		{StatusStored, StatusIssued, true},
		{StatusStored, StatusReturned, true},
		{StatusStored, StatusReceived, false},
		{StatusIssued, StatusReturned, false},
		{StatusIssued, StatusStored, false},
		{StatusReturned, StatusIssued, false},
		{StatusReturned, StatusStored, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusIssued.Terminal())
	assert.True(t, StatusReturned.Terminal())
	assert.False(t, StatusReceived.Terminal())
	assert.False(t, StatusStored.Terminal())
}

func TestReceiveOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("missing order number", func(t *testing.T) {
		st, _ := newTestStorage(t)

		_, err := st.ReceiveOrder(ctx, ReceiveOrderInput{OrderNumber: "   ", ClientID: 1})
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("success with default expiry", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		var created *repository.Order
		m.orders.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, order *repository.Order) (int64, error) {
				created = order
				return 42, nil
			})
		m.products.EXPECT().
			CreateItemTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, item *repository.OrderItem) error {
				assert.Equal(t, int64(42), item.OrderID)
				assert.Equal(t, int64(7), item.ProductID)
				assert.Equal(t, 2, item.Quantity)
				return nil
			})
		m.history.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, entry *repository.HistoryEntry) error {
				assert.Equal(t, string(StatusReceived), entry.Status)
				return nil
			})
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		order, err := st.ReceiveOrder(ctx, ReceiveOrderInput{
			OrderNumber: "ORD-1001",
			ClientID:    5,
			TotalAmount: 99.5,
			Items:       []OrderItemInput{{ProductID: 7, Quantity: 2, Price: 49.75}},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(42), order.ID)
		assert.Equal(t, StatusReceived, order.Status)
		assert.Equal(t, testNow.AddDate(0, 0, 7), created.ExpiryDate)
		assert.Nil(t, created.CellID)
	})

	t.Run("duplicate order number", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(int64(0), repository.ErrDuplicateOrder)

		_, err := st.ReceiveOrder(ctx, ReceiveOrderInput{OrderNumber: "ORD-1001", ClientID: 5})
		assert.ErrorIs(t, err, repository.ErrDuplicateOrder)
	})
}

func TestAssignCell(t *testing.T) {
	ctx := context.Background()

	receivedOrder := func() *repository.Order {
		return &repository.Order{ID: 10, OrderNumber: "ORD-10", Status: string(StatusReceived)}
	}

	t.Run("success", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(receivedOrder(), nil)
		m.cells.EXPECT().TryOccupyTx(gomock.Any(), m.tx, int64(3)).Return(true, nil)
		m.orders.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, order *repository.Order) error {
				assert.Equal(t, string(StatusStored), order.Status)
				require.NotNil(t, order.CellID)
				assert.Equal(t, int64(3), *order.CellID)
				return nil
			})
		m.history.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		require.NoError(t, st.AssignCell(ctx, 10, 3))
	})

	t.Run("cell already occupied", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(receivedOrder(), nil)
		m.cells.EXPECT().TryOccupyTx(gomock.Any(), m.tx, int64(3)).Return(false, nil)
		m.cells.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(3)).
			Return(&repository.StorageCell{ID: 3, CellNumber: "A-003", IsOccupied: true}, nil)

		err := st.AssignCell(ctx, 10, 3)
		assert.ErrorIs(t, err, repository.ErrCellOccupied)
	})

	t.Run("cell does not exist", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(receivedOrder(), nil)
		m.cells.EXPECT().TryOccupyTx(gomock.Any(), m.tx, int64(99)).Return(false, nil)
		m.cells.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(99)).
			Return(nil, repository.ErrObjectNotFound)

		err := st.AssignCell(ctx, 10, 99)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("order not in received status", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).
			Return(&repository.Order{ID: 10, Status: string(StatusIssued)}, nil)

		err := st.AssignCell(ctx, 10, 3)
		assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	})
}

func TestAutoAssignCell(t *testing.T) {
	ctx := context.Background()

	t.Run("no free cell leaves order received", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).
			Return(&repository.Order{ID: 10, Status: string(StatusReceived)}, nil)
		m.cells.EXPECT().FirstFreeTx(gomock.Any(), m.tx).Return(nil, repository.ErrObjectNotFound)

		cell, err := st.AutoAssignCell(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, cell)
	})

	t.Run("assigns lowest free cell", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).
			Return(&repository.Order{ID: 10, OrderNumber: "ORD-10", Status: string(StatusReceived)}, nil)
		m.cells.EXPECT().FirstFreeTx(gomock.Any(), m.tx).
			Return(&repository.StorageCell{ID: 2, CellNumber: "A-002"}, nil)
		m.cells.EXPECT().TryOccupyTx(gomock.Any(), m.tx, int64(2)).Return(true, nil)
		m.orders.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.history.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		cell, err := st.AutoAssignCell(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, cell)
		assert.Equal(t, "A-002", cell.CellNumber)
		assert.True(t, cell.IsOccupied)
	})
}

func TestIssueOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("stored order releases cell and writes receipt", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		cellID := int64(3)
		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(&repository.Order{
				ID: 42, OrderNumber: "ORD-42", Status: string(StatusStored),
				CellID: &cellID, TotalAmount: 250,
			}, nil)
		m.cells.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(3)).
			Return(&repository.StorageCell{ID: 3, CellNumber: "A-003", IsOccupied: true}, nil)
		m.cells.EXPECT().ReleaseTx(gomock.Any(), m.tx, int64(3)).Return(nil)
		m.orders.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, order *repository.Order) error {
				assert.Equal(t, string(StatusIssued), order.Status)
				assert.Nil(t, order.CellID)
				require.NotNil(t, order.EmployeeID)
				assert.Equal(t, int64(7), *order.EmployeeID)
				require.NotNil(t, order.IssuedAt)
				assert.Equal(t, testNow, *order.IssuedAt)
				return nil
			})
		m.receipts.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, receipt *repository.Receipt) (int64, error) {
				assert.Equal(t, "RCP-42-20240102150405", receipt.ReceiptNumber)
				assert.Equal(t, 250.0, receipt.TotalAmount)
				require.NotNil(t, receipt.CellNumber)
				assert.Equal(t, "A-003", *receipt.CellNumber)
				return 1, nil
			})
		m.history.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		receipt, err := st.IssueOrder(ctx, 42, 7)
		require.NoError(t, err)
		assert.Equal(t, "RCP-42-20240102150405", receipt)
	})

	t.Run("walk-up issue without cell", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(&repository.Order{ID: 42, OrderNumber: "ORD-42", Status: string(StatusReceived)}, nil)
		m.orders.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.receipts.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, receipt *repository.Receipt) (int64, error) {
				assert.Nil(t, receipt.CellNumber)
				return 1, nil
			})
		m.history.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		_, err := st.IssueOrder(ctx, 42, 7)
		require.NoError(t, err)
	})

	t.Run("already issued", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(&repository.Order{ID: 42, Status: string(StatusIssued)}, nil)

		_, err := st.IssueOrder(ctx, 42, 7)
		assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	})
}

func TestReturnOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("stored order releases cell", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		cellID := int64(4)
		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(&repository.Order{
				ID: 42, OrderNumber: "ORD-42", Status: string(StatusStored),
				CellID: &cellID, TotalAmount: 120,
			}, nil)
		m.returns.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, ret *repository.ReturnEntry) (int64, error) {
				assert.Equal(t, int64(42), ret.OrderID)
				assert.Equal(t, "damaged", ret.Reason)
				assert.Equal(t, 120.0, ret.Amount)
				return 9, nil
			})
		m.cells.EXPECT().ReleaseTx(gomock.Any(), m.tx, int64(4)).Return(nil)
		m.orders.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, order *repository.Order) error {
				assert.Equal(t, string(StatusReturned), order.Status)
				assert.Nil(t, order.CellID)
				return nil
			})
		m.history.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		returnID, err := st.ReturnOrder(ctx, 42, "damaged")
		require.NoError(t, err)
		assert.Equal(t, int64(9), returnID)
	})

	t.Run("issued order cannot be returned", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.orders.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(&repository.Order{ID: 42, Status: string(StatusIssued)}, nil)

		_, err := st.ReturnOrder(ctx, 42, "changed mind")
		assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	})
}

func TestSearchOrders(t *testing.T) {
	ctx := context.Background()
	st, m := newTestStorage(t)

	cell := "A-001"
	m.orders.EXPECT().
		Search(gomock.Any(), "1234", true).
		Return([]*repository.OrderSummary{
			{ID: 1, OrderNumber: "ORD-1", ClientName: "Ivan", CellNumber: &cell, Status: "stored", ReceivedAt: testNow},
			{ID: 2, OrderNumber: "ORD-2", ClientName: "Ivan", Status: "received", ReceivedAt: testNow},
		}, nil)

	result, err := st.SearchOrders(ctx, "1234", "client_phone")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "A-001", result[0].Cell)
	assert.Equal(t, "", result[1].Cell)
	assert.Equal(t, StatusReceived, result[1].Status)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	st, m := newTestStorage(t)

	m.orders.EXPECT().Stats(gomock.Any()).
		Return(&repository.OrderStats{TodayOrders: 5, TodayIssued: 2, ActiveOrders: 12}, nil)
	m.cells.EXPECT().CountFree(gomock.Any()).Return(38, nil)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TodayOrders)
	assert.Equal(t, 2, stats.TodayIssued)
	assert.Equal(t, 12, stats.ActiveOrders)
	assert.Equal(t, 38, stats.FreeCells)
}

func TestReceiptNumber(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "RCP-7-20240315103000", ReceiptNumber(7, at))

	// Timestamps are normalized to UTC regardless of input zone.
	msk := time.FixedZone("MSK", 3*3600)
	assert.Equal(t, "RCP-7-20240315103000", ReceiptNumber(7, time.Date(2024, 3, 15, 13, 30, 0, 0, msk)))
}
