package storage

import "time"

// Status is the order lifecycle state. Allowed transitions:
//
//	received -> stored -> issued
//	received -> issued            (walk-up pickup, no cell assigned)
//	received -> returned
//	stored   -> returned
//
// issued and returned are terminal.
type Status string

const (
	StatusReceived Status = "received"
	StatusStored   Status = "stored"
	StatusIssued   Status = "issued"
	StatusReturned Status = "returned"
)

func (s Status) Terminal() bool {
	return s == StatusIssued || s == StatusReturned
}

func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusReceived:
		return next == StatusStored || next == StatusIssued || next == StatusReturned
	case StatusStored:
		return next == StatusIssued || next == StatusReturned
	default:
		return false
	}
}

type Order struct {
	ID          int64      `json:"id"`
	OrderNumber string     `json:"order_number"`
	ClientID    int64      `json:"client_id"`
	Status      Status     `json:"status"`
	CellID      *int64     `json:"cell_id,omitempty"`
	EmployeeID  *int64     `json:"employee_id,omitempty"`
	ReceivedAt  time.Time  `json:"received_at"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
	ExpiryDate  time.Time  `json:"expiry_date"`
	TotalAmount float64    `json:"total_amount"`
	TrackNumber *string    `json:"track_number,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type Client struct {
	ID       int64   `json:"id"`
	Phone    string  `json:"phone"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
}

// ClientResolution reports how a client record was obtained, so bulk import
// can surface placeholder-phone matches as low confidence.
type ClientResolution struct {
	Created          bool
	PlaceholderPhone bool
}

type StorageCell struct {
	ID         int64  `json:"id"`
	CellNumber string `json:"number"`
	IsOccupied bool   `json:"-"`
}

type OrderSummary struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"order_number"`
	ClientName  string    `json:"client_name"`
	Cell        string    `json:"cell"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryEntry struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type Return struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Reason    string    `json:"reason"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	TodayOrders  int `json:"today_orders"`
	TodayIssued  int `json:"today_issued"`
	ActiveOrders int `json:"active_orders"`
	FreeCells    int `json:"free_cells"`
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int
	Price     float64
}

type ReceiveOrderInput struct {
	OrderNumber string
	ClientID    int64
	Items       []OrderItemInput
	TotalAmount float64
	Notes       string
	TrackNumber string
	ExpiryDays  int
}
