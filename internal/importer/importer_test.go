package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	importer_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/importer/mocks"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

type feedStub struct {
	rows []FeedRow
	err  error
}

func (f *feedStub) ReadAll() ([]FeedRow, error) {
	return f.rows, f.err
}

func okRow(line int, number string) FeedRow {
	return FeedRow{
		LineNum:     line,
		OrderNumber: number,
		Phone:       "+79990001122",
		FullName:    "Ivan Petrov",
		TotalAmount: "150.50",
	}
}

func TestRunRowIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{})

	feed := &feedStub{rows: []FeedRow{
		okRow(2, "ORD-1"),
		okRow(3, "ORD-2"),
		{LineNum: 4},
		okRow(5, "ORD-3"),
	}}

	client := &storage.Client{ID: 5, Phone: "+79990001122"}

	store.EXPECT().OrderExists(gomock.Any(), "ORD-1").Return(false, nil)
	store.EXPECT().OrderExists(gomock.Any(), "ORD-2").Return(true, nil)
	store.EXPECT().OrderExists(gomock.Any(), "ORD-3").Return(false, nil)

	store.EXPECT().ResolveClient(gomock.Any(), "+79990001122", "Ivan Petrov", "").
		Return(client, storage.ClientResolution{}, nil).Times(2)

	store.EXPECT().
		ReceiveOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in storage.ReceiveOrderInput) (*storage.Order, error) {
			assert.Equal(t, int64(5), in.ClientID)
			assert.Equal(t, 150.50, in.TotalAmount)
			return &storage.Order{ID: 100, OrderNumber: in.OrderNumber}, nil
		}).Times(2)

	store.EXPECT().
		RecordAudit(gomock.Any(), nil, "IMPORT_ORDERS", "Order", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *int64, _, _ string, details map[string]any) error {
			assert.Equal(t, 2, details["success"])
			assert.Equal(t, 1, details["duplicates"])
			assert.Equal(t, 1, details["errors"])
			return nil
		})

	report, err := imp.Run(context.Background(), feed, "feed.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "row 4")
	assert.Contains(t, report.Errors[0], "missing order number")
}

func TestRunFileLevelErrorAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{})

	feedErr := errors.New("corrupt workbook")
	_, err := imp.Run(context.Background(), &feedStub{err: feedErr}, "feed.xlsx")
	assert.ErrorIs(t, err, feedErr)
}

func TestRunCancellationBetweenRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No row is touched, but the audit entry is still recorded.
	store.EXPECT().RecordAudit(gomock.Any(), nil, "IMPORT_ORDERS", "Order", gomock.Any()).Return(nil)

	report, err := imp.Run(ctx, &feedStub{rows: []FeedRow{okRow(2, "ORD-1")}}, "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded+report.Duplicates+report.Failed)
}

func TestRunDuplicateRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{})

	store.EXPECT().OrderExists(gomock.Any(), "ORD-1").Return(false, nil)
	store.EXPECT().ResolveClient(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&storage.Client{ID: 5}, storage.ClientResolution{}, nil)
	store.EXPECT().ReceiveOrder(gomock.Any(), gomock.Any()).
		Return(nil, repository.ErrDuplicateOrder)
	store.EXPECT().RecordAudit(gomock.Any(), nil, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	report, err := imp.Run(context.Background(), &feedStub{rows: []FeedRow{okRow(2, "ORD-1")}}, "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 0, report.Failed)
}

func TestRunPlaceholderPhoneWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{})

	row := okRow(2, "ORD-1")
	row.Phone = ""

	store.EXPECT().OrderExists(gomock.Any(), "ORD-1").Return(false, nil)
	store.EXPECT().ResolveClient(gomock.Any(), "", "Ivan Petrov", "").
		Return(&storage.Client{ID: 5}, storage.ClientResolution{Created: true, PlaceholderPhone: true}, nil)
	store.EXPECT().ReceiveOrder(gomock.Any(), gomock.Any()).
		Return(&storage.Order{ID: 100}, nil)
	store.EXPECT().RecordAudit(gomock.Any(), nil, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	report, err := imp.Run(context.Background(), &feedStub{rows: []FeedRow{row}}, "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "low confidence")
}

func TestRunAutoAssignNoFreeCell(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := importer_mocks.NewMockStore(ctrl)
	imp := New(store, zap.NewNop(), Options{AutoAssignCell: true})

	store.EXPECT().OrderExists(gomock.Any(), "ORD-1").Return(false, nil)
	store.EXPECT().ResolveClient(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&storage.Client{ID: 5}, storage.ClientResolution{}, nil)
	store.EXPECT().ReceiveOrder(gomock.Any(), gomock.Any()).
		Return(&storage.Order{ID: 100, OrderNumber: "ORD-1"}, nil)
	store.EXPECT().AutoAssignCell(gomock.Any(), int64(100)).Return(nil, nil)
	store.EXPECT().RecordAudit(gomock.Any(), nil, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	report, err := imp.Run(context.Background(), &feedStub{rows: []FeedRow{okRow(2, "ORD-1")}}, "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "no free cell")
}

func TestParseItems(t *testing.T) {
	ctx := context.Background()

	t.Run("padding for short quantity and price lists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := importer_mocks.NewMockStore(ctrl)
		imp := New(store, zap.NewNop(), Options{})

		store.EXPECT().GetProductByArticle(gomock.Any(), "A1").
			Return(&storage.Product{ID: 1, Article: "A1", Price: 10}, nil)
		store.EXPECT().GetProductByArticle(gomock.Any(), "A2").
			Return(&storage.Product{ID: 2, Article: "A2", Price: 20}, nil)
		store.EXPECT().GetProductByArticle(gomock.Any(), "A3").
			Return(&storage.Product{ID: 3, Article: "A3", Price: 30}, nil)

		report := &BatchReport{}
		items, ok := imp.parseItems(ctx, FeedRow{
			LineNum:     2,
			OrderNumber: "ORD-1",
			Products:    "A1, A2, A3",
			Quantities:  "2",
			Prices:      "9.99, 19.99",
		}, report)
		require.True(t, ok)
		require.Len(t, items, 3)

		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 9.99, items[0].Price)
		assert.Equal(t, 1, items[1].Quantity)
		assert.Equal(t, 19.99, items[1].Price)
		assert.Equal(t, 1, items[2].Quantity)
		assert.Equal(t, 30.0, items[2].Price)
	})

	t.Run("unknown article is an item error, not a row failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := importer_mocks.NewMockStore(ctrl)
		imp := New(store, zap.NewNop(), Options{})

		store.EXPECT().GetProductByArticle(gomock.Any(), "GONE").
			Return(nil, repository.ErrObjectNotFound)
		store.EXPECT().GetProductByArticle(gomock.Any(), "A2").
			Return(&storage.Product{ID: 2, Article: "A2", Price: 20}, nil)

		report := &BatchReport{}
		items, ok := imp.parseItems(ctx, FeedRow{
			LineNum:  2,
			Products: "GONE,A2",
		}, report)
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].ProductID)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "GONE")
	})

	t.Run("store failure fails the row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := importer_mocks.NewMockStore(ctrl)
		imp := New(store, zap.NewNop(), Options{})

		store.EXPECT().GetProductByArticle(gomock.Any(), "A1").
			Return(nil, repository.ErrStoreUnavailable)

		report := &BatchReport{}
		_, ok := imp.parseItems(ctx, FeedRow{LineNum: 2, Products: "A1"}, report)
		assert.False(t, ok)
	})

	t.Run("no products is a warning only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		imp := New(importer_mocks.NewMockStore(ctrl), zap.NewNop(), Options{})

		report := &BatchReport{}
		items, ok := imp.parseItems(ctx, FeedRow{LineNum: 2, OrderNumber: "ORD-1"}, report)
		require.True(t, ok)
		assert.Empty(t, items)
		require.Len(t, report.Warnings, 1)
	})
}

func TestReportCaps(t *testing.T) {
	report := &BatchReport{}
	for i := 0; i < maxReportedErrors+5; i++ {
		report.addError("boom")
		report.addWarning("careful")
	}
	assert.Len(t, report.Errors, maxReportedErrors)
	assert.Len(t, report.Warnings, maxReportedErrors)
}
