package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	db_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository/postgresql"
)

func TestHistoryRepoCreateTx(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	entry := &repository.HistoryEntry{
		OrderID:   42,
		Status:    "stored",
		ChangedAt: now,
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := db_mocks.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(db_mocks.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(
			gomock.Any(), gomock.Any(),
			gomock.Eq(entry.OrderID),
			gomock.Eq(entry.Status),
			gomock.Eq(entry.ChangedAt),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.NoError(t, err)
	})

	t.Run("insert error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := db_mocks.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(db_mocks.NewMockDB(ctrl))

		dbErr := errors.New("connection reset")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag(nil), dbErr)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestHistoryRepoGetByOrderID(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := db_mocks.NewMockDB(ctrl)
	repo := postgresql.NewHistoryRepo(mockDB)

	expected := []*repository.HistoryEntry{
		{ID: 1, OrderID: 42, Status: "received"},
		{ID: 2, OrderID: 42, Status: "stored"},
	}

	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(42))).
		DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "ORDER BY changed_at ASC")
			*dest.(*[]*repository.HistoryEntry) = expected
			return nil
		})

	entries, err := repo.GetByOrderID(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, expected, entries)
}
