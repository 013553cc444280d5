package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	db_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	storage_mocks "gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage/mocks"
)

type sentMessage struct {
	topic string
	key   string
	value string
}

type fakeProducer struct {
	sent []sentMessage
	err  error
}

func (p *fakeProducer) SendMessage(_ context.Context, topic string, key, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: string(key), value: string(value)})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func testTask(id uuid.UUID, attempts int) *repository.OutboxTask {
	return &repository.OutboxTask{
		ID:       id,
		Status:   repository.TaskStatusCreated,
		Topic:    "audit_logs",
		Payload:  []byte(`{"action":"HTTP_REQUEST"}`),
		Attempts: attempts,
	}
}

func newTestPublisher(t *testing.T, producer Producer) (*Publisher, *db_mocks.MockDB, *db_mocks.MockTx, *storage_mocks.MockOutboxTaskRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockDB := db_mocks.NewMockDB(ctrl)
	mockTx := db_mocks.NewMockTx(ctrl)
	repo := storage_mocks.NewMockOutboxTaskRepository(ctrl)

	p := NewPublisher(mockDB, repo, producer, PublisherConfig{
		PollInterval: time.Second,
		BatchSize:    10,
		MaxAttempts:  3,
	}, zap.NewNop())
	return p, mockDB, mockTx, repo
}

func TestProcessBatchClaimsInsideTransaction(t *testing.T) {
	ctx := context.Background()
	producer := &fakeProducer{}
	p, mockDB, mockTx, repo := newTestPublisher(t, producer)

	taskID := uuid.New()
	task := testTask(taskID, 0)

	// The SKIP LOCKED select must see the claim transaction: on the pool it
	// would autocommit, drop the row locks, and let a second publisher pick
	// up the same tasks.
	gomock.InOrder(
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil),
		repo.EXPECT().GetProcessableTasks(gomock.Any(), mockTx, 10, 3).
			Return([]*repository.OutboxTask{task}, nil),
		repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), mockTx, taskID,
			repository.TaskStatusProcessing, 0, nil, nil).
			Return(nil),
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil),
		repo.EXPECT().UpdateTaskStatus(gomock.Any(), mockDB, taskID,
			repository.TaskStatusDone, 0, nil, gomock.Not(gomock.Nil())).
			Return(nil),
	)
	mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, p.processBatch(ctx))

	require.Len(t, producer.sent, 1)
	assert.Equal(t, "audit_logs", producer.sent[0].topic)
	assert.Equal(t, taskID.String(), producer.sent[0].key)
}

func TestProcessBatchEmptyOutbox(t *testing.T) {
	ctx := context.Background()
	producer := &fakeProducer{}
	p, mockDB, mockTx, repo := newTestPublisher(t, producer)

	mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
	repo.EXPECT().GetProcessableTasks(gomock.Any(), mockTx, 10, 3).Return(nil, nil)
	mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
	mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, p.processBatch(ctx))
	assert.Empty(t, producer.sent)
}

func TestProcessBatchSendFailureIncrementsAttempts(t *testing.T) {
	ctx := context.Background()
	producer := &fakeProducer{err: errors.New("broker unreachable")}
	p, mockDB, mockTx, repo := newTestPublisher(t, producer)

	taskID := uuid.New()
	task := testTask(taskID, 1)

	mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
	repo.EXPECT().GetProcessableTasks(gomock.Any(), mockTx, 10, 3).
		Return([]*repository.OutboxTask{task}, nil)
	repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), mockTx, taskID,
		repository.TaskStatusProcessing, 1, nil, nil).
		Return(nil)
	mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
	mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	repo.EXPECT().UpdateTaskStatus(gomock.Any(), mockDB, taskID,
		repository.TaskStatusFailed, 2, gomock.Not(gomock.Nil()), nil).
		Return(nil)

	require.NoError(t, p.processBatch(ctx))
	assert.Empty(t, producer.sent)
}
