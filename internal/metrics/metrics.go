package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvz_orders_received_total",
		Help: "Total number of orders accepted at the pickup point.",
	})

	OrdersIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvz_orders_issued_total",
		Help: "Total number of orders handed over to clients.",
	})

	OrdersReturnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvz_orders_returned_total",
		Help: "Total number of orders marked as returned.",
	})

	CellsAssignedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvz_cells_assigned_total",
		Help: "Total number of successful storage cell assignments.",
	})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvz_import_rows_total",
		Help: "Feed rows processed by the bulk importer, by outcome.",
	},
		[]string{"outcome"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvz_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pvz_order_cache_items",
		Help: "Current number of active orders held in the in-memory cache.",
	})

	OverdueOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pvz_overdue_orders",
		Help: "Active orders past their retention expiry, per last sweep.",
	})
)
