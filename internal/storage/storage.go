//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=storage_mocks
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

const AuditTopic = "audit_logs"

type OrderRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error)
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)
	UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	Search(ctx context.Context, query string, byPhone bool) ([]*repository.OrderSummary, error)
	Stats(ctx context.Context) (*repository.OrderStats, error)
	GetActive(ctx context.Context) ([]*repository.Order, error)
	GetOverdue(ctx context.Context, asOf time.Time) ([]*repository.Order, error)
}

type CellRepository interface {
	ListFree(ctx context.Context) ([]*repository.StorageCell, error)
	CountFree(ctx context.Context) (int, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.StorageCell, error)
	TryOccupyTx(ctx context.Context, tx db.Tx, id int64) (bool, error)
	ReleaseTx(ctx context.Context, tx db.Tx, id int64) error
	FirstFreeTx(ctx context.Context, tx db.Tx) (*repository.StorageCell, error)
}

type UserRepository interface {
	GetByPhone(ctx context.Context, phone string) (*repository.User, error)
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	Create(ctx context.Context, user *repository.User) (int64, error)
}

type ProductRepository interface {
	GetByArticle(ctx context.Context, article string) (*repository.Product, error)
	CreateItemTx(ctx context.Context, tx db.Tx, item *repository.OrderItem) error
}

type ReceiptRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, receipt *repository.Receipt) (int64, error)
	GetByOrderID(ctx context.Context, orderID int64) (*repository.Receipt, error)
}

type ReturnRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, ret *repository.ReturnEntry) (int64, error)
	GetPaginated(ctx context.Context, page, limit int) ([]*repository.ReturnEntry, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetByOrderID(ctx context.Context, orderID int64) ([]*repository.HistoryEntry, error)
}

type AuditRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.AuditLog) error
}

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
	GetProcessableTasks(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type Deps struct {
	Orders   OrderRepository
	Cells    CellRepository
	Users    UserRepository
	Products ProductRepository
	Receipts ReceiptRepository
	Returns  ReturnRepository
	History  HistoryRepository
	Audit    AuditRepository
	Outbox   OutboxTaskRepository
}

// PVZStorage owns the order state machine and the cell occupancy invariant.
// Every transition runs inside a single transaction with the order row
// locked, so concurrent operations on the same order serialize and exactly
// one wins.
type PVZStorage struct {
	db     db.DB
	repos  Deps
	cache  *cache.OrderCache
	logger *zap.Logger
	nowFn  func() time.Time
}

func NewPVZStorage(database db.DB, repos Deps, orderCache *cache.OrderCache, logger *zap.Logger) *PVZStorage {
	return &PVZStorage{
		db:     database,
		repos:  repos,
		cache:  orderCache,
		logger: logger,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *PVZStorage) now() time.Time {
	return s.nowFn()
}

func (s *PVZStorage) cacheSet(order *repository.Order) {
	if s.cache != nil {
		s.cache.Set(order)
	}
}

func (s *PVZStorage) cacheGet(orderID int64) (*repository.Order, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(orderID)
}

// enqueueAudit adds an audit task to the outbox inside the caller's
// transaction, so the audit trail commits or rolls back with the change
// it describes.
func (s *PVZStorage) enqueueAudit(ctx context.Context, tx db.Tx, payload repository.AuditPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.repos.Outbox.CreateTx(ctx, tx, &repository.OutboxTask{
		Topic:   AuditTopic,
		Payload: raw,
	})
}

func toDomainOrder(o *repository.Order) *Order {
	return &Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		Status:      Status(o.Status),
		CellID:      o.CellID,
		EmployeeID:  o.EmployeeID,
		ReceivedAt:  o.ReceivedAt,
		IssuedAt:    o.IssuedAt,
		ExpiryDate:  o.ExpiryDate,
		TotalAmount: o.TotalAmount,
		TrackNumber: o.TrackNumber,
		Notes:       o.Notes,
	}
}
