//go:generate mockgen -source ./importer.go -destination=./mocks/importer.go -package=importer_mocks
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

// maxReportedErrors bounds the error list carried in the batch report and
// the audit log entry; counters are never capped.
const maxReportedErrors = 10

type Store interface {
	OrderExists(ctx context.Context, orderNumber string) (bool, error)
	ResolveClient(ctx context.Context, phone, fullName, email string) (*storage.Client, storage.ClientResolution, error)
	ReceiveOrder(ctx context.Context, in storage.ReceiveOrderInput) (*storage.Order, error)
	GetProductByArticle(ctx context.Context, article string) (*storage.Product, error)
	AutoAssignCell(ctx context.Context, orderID int64) (*storage.StorageCell, error)
	RecordAudit(ctx context.Context, userID *int64, action, entityType string, details map[string]any) error
}

type Options struct {
	AutoAssignCell bool
	OperatorID     *int64
}

// Importer reconciles an external tabular feed into orders. Every row is an
// independent unit of work: a bad row is reported and skipped, never
// aborting the batch.
type Importer struct {
	store  Store
	logger *zap.Logger
	opts   Options
}

func New(store Store, logger *zap.Logger, opts Options) *Importer {
	return &Importer{store: store, logger: logger, opts: opts}
}

type BatchReport struct {
	Succeeded  int
	Duplicates int
	Failed     int
	Errors     []string
	Warnings   []string
}

func (r *BatchReport) addError(msg string) {
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, msg)
	}
}

func (r *BatchReport) addWarning(msg string) {
	if len(r.Warnings) < maxReportedErrors {
		r.Warnings = append(r.Warnings, msg)
	}
}

// Run processes the whole feed. A file-level read error aborts before any
// row; afterwards the batch always completes, short of cancellation between
// rows, and the partial report stays valid.
func (i *Importer) Run(ctx context.Context, feed FeedReader, source string) (*BatchReport, error) {
	i.logger.Info("import started", zap.String("file", source))

	rows, err := feed.ReadAll()
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	for _, row := range rows {
		if ctx.Err() != nil {
			i.logger.Warn("import cancelled between rows",
				zap.Int("processed", report.Succeeded+report.Duplicates+report.Failed))
			break
		}
		i.processRow(ctx, row, report)
	}

	err = i.store.RecordAudit(ctx, i.opts.OperatorID, "IMPORT_ORDERS", "Order", map[string]any{
		"file":       source,
		"success":    report.Succeeded,
		"duplicates": report.Duplicates,
		"errors":     report.Failed,
		"error_list": report.Errors,
	})
	if err != nil {
		i.logger.Error("failed to record import audit entry", zap.Error(err))
	}

	i.logger.Info("import finished",
		zap.String("file", source),
		zap.Int("success", report.Succeeded),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("errors", report.Failed))

	return report, nil
}

func (i *Importer) processRow(ctx context.Context, row FeedRow, report *BatchReport) {
	orderNumber := strings.TrimSpace(row.OrderNumber)
	if orderNumber == "" {
		i.failRow(report, row.LineNum, "missing order number")
		return
	}

	exists, err := i.store.OrderExists(ctx, orderNumber)
	if err != nil {
		i.failRow(report, row.LineNum, fmt.Sprintf("failed to check order %s: %v", orderNumber, err))
		return
	}
	if exists {
		report.Duplicates++
		metrics.ImportRowsTotal.WithLabelValues("duplicate").Inc()
		i.logger.Warn("order already exists, skipping row",
			zap.Int("line", row.LineNum), zap.String("order_number", orderNumber))
		return
	}

	// Client creation is deliberately left outside the row transaction:
	// resolution is idempotent, so a retried row reuses the same record.
	client, resolution, err := i.store.ResolveClient(ctx, row.Phone, row.FullName, row.Email)
	if err != nil {
		i.failRow(report, row.LineNum, fmt.Sprintf("failed to resolve client: %v", err))
		return
	}
	if resolution.PlaceholderPhone {
		report.addWarning(fmt.Sprintf("row %d: no phone in feed, client %d matched by placeholder (low confidence)", row.LineNum, client.ID))
	}

	totalAmount := i.parseAmount(row, report)
	expiryDays := i.parseExpiryDays(row, report)

	items, ok := i.parseItems(ctx, row, report)
	if !ok {
		i.failRow(report, row.LineNum, "failed to resolve order items")
		return
	}

	order, err := i.store.ReceiveOrder(ctx, storage.ReceiveOrderInput{
		OrderNumber: orderNumber,
		ClientID:    client.ID,
		Items:       items,
		TotalAmount: totalAmount,
		Notes:       row.Notes,
		TrackNumber: row.TrackNumber,
		ExpiryDays:  expiryDays,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			// Raced with a concurrent intake of the same number.
			report.Duplicates++
			metrics.ImportRowsTotal.WithLabelValues("duplicate").Inc()
			return
		}
		i.failRow(report, row.LineNum, fmt.Sprintf("failed to create order %s: %v", orderNumber, err))
		return
	}

	if i.opts.AutoAssignCell {
		cell, err := i.store.AutoAssignCell(ctx, order.ID)
		switch {
		case err != nil:
			report.addWarning(fmt.Sprintf("row %d: cell assignment failed for order %s: %v", row.LineNum, orderNumber, err))
		case cell == nil:
			report.addWarning(fmt.Sprintf("row %d: no free cell for order %s, left in received", row.LineNum, orderNumber))
			i.logger.Warn("no free cell for order", zap.String("order_number", orderNumber))
		default:
			i.logger.Info("cell assigned to imported order",
				zap.String("order_number", orderNumber), zap.String("cell", cell.CellNumber))
		}
	}

	report.Succeeded++
	metrics.ImportRowsTotal.WithLabelValues("success").Inc()
	i.logger.Info("row imported", zap.Int("line", row.LineNum), zap.String("order_number", orderNumber))
}

func (i *Importer) failRow(report *BatchReport, line int, msg string) {
	report.Failed++
	full := fmt.Sprintf("row %d: %s", line, msg)
	report.addError(full)
	metrics.ImportRowsTotal.WithLabelValues("error").Inc()
	i.logger.Error("row failed", zap.Int("line", line), zap.String("reason", msg))
}

func (i *Importer) parseAmount(row FeedRow, report *BatchReport) float64 {
	raw := strings.TrimSpace(row.TotalAmount)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		report.addWarning(fmt.Sprintf("row %d: unparseable total_amount %q, defaulting to 0", row.LineNum, raw))
		return 0
	}
	return value
}

func (i *Importer) parseExpiryDays(row FeedRow, report *BatchReport) int {
	raw := strings.TrimSpace(row.ExpiryDays)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		report.addWarning(fmt.Sprintf("row %d: unparseable expiry_days %q, using default", row.LineNum, raw))
		return 0
	}
	return value
}

// parseItems reconciles the three comma-separated lists. Lists shorter than
// the product list are padded: quantity with 1, price with the catalog
// price. An unknown article is a per-item error, not a row failure.
func (i *Importer) parseItems(ctx context.Context, row FeedRow, report *BatchReport) ([]storage.OrderItemInput, bool) {
	articles := splitList(row.Products)
	if len(articles) == 0 {
		report.addWarning(fmt.Sprintf("row %d: order %s has no products", row.LineNum, row.OrderNumber))
		return nil, true
	}

	quantities := splitList(row.Quantities)
	prices := splitList(row.Prices)

	items := make([]storage.OrderItemInput, 0, len(articles))
	for idx, article := range articles {
		product, err := i.store.GetProductByArticle(ctx, article)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				report.addError(fmt.Sprintf("row %d: product with article %s not found", row.LineNum, article))
				continue
			}
			return nil, false
		}

		quantity := 1
		if idx < len(quantities) {
			if v, err := strconv.Atoi(quantities[idx]); err == nil && v > 0 {
				quantity = v
			}
		}

		price := product.Price
		if idx < len(prices) {
			if v, err := strconv.ParseFloat(prices[idx], 64); err == nil && v >= 0 {
				price = v
			}
		}

		items = append(items, storage.OrderItemInput{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     price,
		})
	}
	return items, true
}
