package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

func TestRecordAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("log row and outbox task share one transaction", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		operatorID := int64(7)

		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLog) error {
				assert.Equal(t, "IMPORT_ORDERS", entry.Action)
				assert.Equal(t, "Order", entry.EntityType)
				require.NotNil(t, entry.UserID)
				assert.Equal(t, operatorID, *entry.UserID)

				var details map[string]any
				require.NoError(t, json.Unmarshal(entry.Details, &details))
				assert.Equal(t, float64(3), details["succeeded"])
				return nil
			})

		m.outbox.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				assert.Equal(t, AuditTopic, task.Topic)

				var payload repository.AuditPayload
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, "IMPORT_ORDERS", payload.Action)
				assert.Equal(t, testNow, payload.Timestamp)
				return nil
			})

		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		err := st.RecordAudit(ctx, &operatorID, "IMPORT_ORDERS", "Order", map[string]any{
			"succeeded": 3,
		})
		require.NoError(t, err)
	})

	t.Run("log write failure rolls the outbox task back too", func(t *testing.T) {
		st, m := newTestStorage(t)
		m.expectTx()

		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(errors.New("connection reset"))

		err := st.RecordAudit(ctx, nil, "RETENTION_SWEEP", "Order", map[string]any{})
		assert.Error(t, err)
	})
}
