package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

const defaultExpiryDays = 7

// ReceiveOrder registers a parcel at the pickup point. The order number is
// externally supplied and globally idempotent: a second intake attempt for
// the same number fails with ErrDuplicateOrder instead of overwriting.
func (s *PVZStorage) ReceiveOrder(ctx context.Context, in ReceiveOrderInput) (*Order, error) {
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: missing order number", repository.ErrValidation)
	}

	expiryDays := in.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = defaultExpiryDays
	}

	now := s.now()
	repoOrder := &repository.Order{
		OrderNumber: orderNumber,
		ClientID:    in.ClientID,
		Status:      string(StatusReceived),
		ReceivedAt:  now,
		ExpiryDate:  now.AddDate(0, 0, expiryDays),
		TotalAmount: in.TotalAmount,
		TrackNumber: optString(in.TrackNumber),
		Notes:       optString(in.Notes),
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	id, err := s.repos.Orders.CreateTx(ctx, tx, repoOrder)
	if err != nil {
		return nil, err
	}
	repoOrder.ID = id

	for _, item := range in.Items {
		err := s.repos.Products.CreateItemTx(ctx, tx, &repository.OrderItem{
			OrderID:   id,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add order item: %w", err)
		}
	}

	if err := s.appendHistory(ctx, tx, id, StatusReceived); err != nil {
		return nil, err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  now,
		Action:     "ORDER_RECEIVED",
		EntityType: "Order",
		EntityID:   orderNumber,
		Details:    map[string]any{"total_amount": in.TotalAmount, "expiry_date": repoOrder.ExpiryDate},
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersReceivedTotal.Inc()
	s.cacheSet(repoOrder)
	s.logger.Info("order received",
		zap.String("order_number", orderNumber),
		zap.Int64("order_id", id),
		zap.Time("expiry_date", repoOrder.ExpiryDate))

	return toDomainOrder(repoOrder), nil
}

// AssignCell binds a received order to a free storage cell. The flip to
// occupied goes through the cell repo's conditional update, so two
// concurrent assignments of the same cell cannot both succeed.
func (s *PVZStorage) AssignCell(ctx context.Context, orderID, cellID int64) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	repoOrder, err := s.repos.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if Status(repoOrder.Status) != StatusReceived {
		return fmt.Errorf("%w: cannot assign cell to order in status %q", repository.ErrInvalidTransition, repoOrder.Status)
	}

	occupied, err := s.repos.Cells.TryOccupyTx(ctx, tx, cellID)
	if err != nil {
		return err
	}
	if !occupied {
		// Distinguish a missing cell from a lost race.
		if _, err := s.repos.Cells.GetByIDTx(ctx, tx, cellID); err != nil {
			return err
		}
		return repository.ErrCellOccupied
	}

	repoOrder.Status = string(StatusStored)
	repoOrder.CellID = &cellID
	if err := s.repos.Orders.UpdateTx(ctx, tx, repoOrder); err != nil {
		return err
	}
	if err := s.appendHistory(ctx, tx, orderID, StatusStored); err != nil {
		return err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  s.now(),
		Action:     "CELL_ASSIGNED",
		EntityType: "Order",
		EntityID:   repoOrder.OrderNumber,
		Details:    map[string]any{"cell_id": cellID},
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	metrics.CellsAssignedTotal.Inc()
	s.cacheSet(repoOrder)
	s.logger.Info("cell assigned", zap.Int64("order_id", orderID), zap.Int64("cell_id", cellID))
	return nil
}

// AutoAssignCell binds the order to the lowest-numbered free cell. Returns
// nil without error when no cell is free; the order stays received.
func (s *PVZStorage) AutoAssignCell(ctx context.Context, orderID int64) (*StorageCell, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	repoOrder, err := s.repos.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if Status(repoOrder.Status) != StatusReceived {
		return nil, fmt.Errorf("%w: cannot assign cell to order in status %q", repository.ErrInvalidTransition, repoOrder.Status)
	}

	cell, err := s.repos.Cells.FirstFreeTx(ctx, tx)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}

	occupied, err := s.repos.Cells.TryOccupyTx(ctx, tx, cell.ID)
	if err != nil {
		return nil, err
	}
	if !occupied {
		return nil, repository.ErrCellOccupied
	}

	repoOrder.Status = string(StatusStored)
	repoOrder.CellID = &cell.ID
	if err := s.repos.Orders.UpdateTx(ctx, tx, repoOrder); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, tx, orderID, StatusStored); err != nil {
		return nil, err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  s.now(),
		Action:     "CELL_ASSIGNED",
		EntityType: "Order",
		EntityID:   repoOrder.OrderNumber,
		Details:    map[string]any{"cell_id": cell.ID, "cell_number": cell.CellNumber, "auto": true},
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.CellsAssignedTotal.Inc()
	s.cacheSet(repoOrder)
	return &StorageCell{ID: cell.ID, CellNumber: cell.CellNumber, IsOccupied: true}, nil
}

// IssueOrder hands the parcel over to the client: terminal happy path. The
// assigned cell, if any, is released in the same transaction and its number
// is retained on the receipt for the audit trail.
func (s *PVZStorage) IssueOrder(ctx context.Context, orderID, employeeID int64) (string, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	repoOrder, err := s.repos.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	if !Status(repoOrder.Status).CanTransitionTo(StatusIssued) {
		return "", fmt.Errorf("%w: cannot issue order in status %q", repository.ErrInvalidTransition, repoOrder.Status)
	}

	now := s.now()
	var cellNumber *string
	if repoOrder.CellID != nil {
		cell, err := s.repos.Cells.GetByIDTx(ctx, tx, *repoOrder.CellID)
		if err != nil {
			return "", err
		}
		if err := s.repos.Cells.ReleaseTx(ctx, tx, cell.ID); err != nil {
			return "", err
		}
		cellNumber = &cell.CellNumber
	}

	repoOrder.Status = string(StatusIssued)
	repoOrder.IssuedAt = &now
	repoOrder.EmployeeID = &employeeID
	repoOrder.CellID = nil
	if err := s.repos.Orders.UpdateTx(ctx, tx, repoOrder); err != nil {
		return "", err
	}

	receiptNumber, err := s.issueReceipt(ctx, tx, repoOrder, cellNumber, now)
	if err != nil {
		return "", err
	}

	if err := s.appendHistory(ctx, tx, orderID, StatusIssued); err != nil {
		return "", err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  now,
		UserID:     &employeeID,
		Action:     "ORDER_ISSUED",
		EntityType: "Order",
		EntityID:   repoOrder.OrderNumber,
		Details:    map[string]any{"receipt_number": receiptNumber, "released_cell": cellNumber},
	})
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	metrics.OrdersIssuedTotal.Inc()
	s.cacheSet(repoOrder)
	s.logger.Info("order issued",
		zap.Int64("order_id", orderID),
		zap.Int64("employee_id", employeeID),
		zap.String("receipt_number", receiptNumber))
	return receiptNumber, nil
}

// ReturnOrder records a refused parcel. Issued and returned orders are
// terminal, so only received or stored orders can be returned. The assigned
// cell is released so the occupancy invariant keeps holding.
func (s *PVZStorage) ReturnOrder(ctx context.Context, orderID int64, reason string) (int64, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	repoOrder, err := s.repos.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return 0, err
	}
	if !Status(repoOrder.Status).CanTransitionTo(StatusReturned) {
		return 0, fmt.Errorf("%w: cannot return order in status %q", repository.ErrInvalidTransition, repoOrder.Status)
	}

	now := s.now()
	returnID, err := s.repos.Returns.CreateTx(ctx, tx, &repository.ReturnEntry{
		OrderID:   orderID,
		Reason:    reason,
		Amount:    repoOrder.TotalAmount,
		CreatedAt: now,
	})
	if err != nil {
		return 0, err
	}

	if repoOrder.CellID != nil {
		if err := s.repos.Cells.ReleaseTx(ctx, tx, *repoOrder.CellID); err != nil {
			return 0, err
		}
	}

	repoOrder.Status = string(StatusReturned)
	repoOrder.CellID = nil
	if err := s.repos.Orders.UpdateTx(ctx, tx, repoOrder); err != nil {
		return 0, err
	}
	if err := s.appendHistory(ctx, tx, orderID, StatusReturned); err != nil {
		return 0, err
	}

	err = s.enqueueAudit(ctx, tx, repository.AuditPayload{
		Timestamp:  now,
		Action:     "ORDER_RETURNED",
		EntityType: "Order",
		EntityID:   repoOrder.OrderNumber,
		Details:    map[string]any{"reason": reason, "amount": repoOrder.TotalAmount},
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	metrics.OrdersReturnedTotal.Inc()
	s.cacheSet(repoOrder)
	s.logger.Info("order returned", zap.Int64("order_id", orderID), zap.String("reason", reason))
	return returnID, nil
}

func (s *PVZStorage) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	if cached, found := s.cacheGet(orderID); found {
		return toDomainOrder(cached), nil
	}
	repoOrder, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toDomainOrder(repoOrder), nil
}

func (s *PVZStorage) OrderExists(ctx context.Context, orderNumber string) (bool, error) {
	return s.repos.Orders.ExistsByNumber(ctx, orderNumber)
}

func (s *PVZStorage) SearchOrders(ctx context.Context, query, searchType string) ([]OrderSummary, error) {
	byPhone := searchType == "phone" || searchType == "client_phone"
	rows, err := s.repos.Orders.Search(ctx, query, byPhone)
	if err != nil {
		return nil, err
	}

	result := make([]OrderSummary, len(rows))
	for i, row := range rows {
		cell := ""
		if row.CellNumber != nil {
			cell = *row.CellNumber
		}
		result[i] = OrderSummary{
			ID:          row.ID,
			OrderNumber: row.OrderNumber,
			ClientName:  row.ClientName,
			Cell:        cell,
			Status:      Status(row.Status),
			CreatedAt:   row.ReceivedAt,
		}
	}
	return result, nil
}

func (s *PVZStorage) OrderHistory(ctx context.Context, orderID int64) ([]HistoryEntry, error) {
	repoEntries, err := s.repos.History.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, len(repoEntries))
	for i, entry := range repoEntries {
		entries[i] = HistoryEntry{Status: Status(entry.Status), ChangedAt: entry.ChangedAt}
	}
	return entries, nil
}

func (s *PVZStorage) Returns(ctx context.Context, page, limit int) ([]Return, error) {
	repoReturns, err := s.repos.Returns.GetPaginated(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	returns := make([]Return, len(repoReturns))
	for i, ret := range repoReturns {
		returns[i] = Return{
			ID:        ret.ID,
			OrderID:   ret.OrderID,
			Reason:    ret.Reason,
			Amount:    ret.Amount,
			CreatedAt: ret.CreatedAt,
		}
	}
	return returns, nil
}

func (s *PVZStorage) Stats(ctx context.Context) (*Stats, error) {
	orderStats, err := s.repos.Orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	freeCells, err := s.repos.Cells.CountFree(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TodayOrders:  orderStats.TodayOrders,
		TodayIssued:  orderStats.TodayIssued,
		ActiveOrders: orderStats.ActiveOrders,
		FreeCells:    freeCells,
	}, nil
}

func (s *PVZStorage) OverdueOrders(ctx context.Context) ([]*Order, error) {
	repoOrders, err := s.repos.Orders.GetOverdue(ctx, s.now())
	if err != nil {
		return nil, err
	}
	orders := make([]*Order, len(repoOrders))
	for i, o := range repoOrders {
		orders[i] = toDomainOrder(o)
	}
	return orders, nil
}

func (s *PVZStorage) appendHistory(ctx context.Context, tx db.Tx, orderID int64, status Status) error {
	return s.repos.History.CreateTx(ctx, tx, &repository.HistoryEntry{
		OrderID:   orderID,
		Status:    string(status),
		ChangedAt: s.now(),
	})
}

func optString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
