package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound    = errors.New("not found")
	ErrDuplicateOrder    = errors.New("order number already exists")
	ErrCellOccupied      = errors.New("cell is occupied")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrValidation        = errors.New("validation failed")
)

type User struct {
	ID           int64     `db:"id"`
	Phone        string    `db:"phone"`
	FullName     string    `db:"full_name"`
	Email        *string   `db:"email"`
	Role         string    `db:"role"`
	PasswordHash *string   `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type StorageCell struct {
	ID         int64  `db:"id"`
	CellNumber string `db:"cell_number"`
	IsOccupied bool   `db:"is_occupied"`
}

type Order struct {
	ID          int64      `db:"id"`
	OrderNumber string     `db:"order_number"`
	ClientID    int64      `db:"client_id"`
	Status      string     `db:"status"`
	CellID      *int64     `db:"cell_id"`
	EmployeeID  *int64     `db:"employee_id"`
	ReceivedAt  time.Time  `db:"received_at"`
	IssuedAt    *time.Time `db:"issued_at"`
	ExpiryDate  time.Time  `db:"expiry_date"`
	TotalAmount float64    `db:"total_amount"`
	TrackNumber *string    `db:"track_number"`
	Notes       *string    `db:"notes"`
}

type OrderItem struct {
	ID        int64   `db:"id"`
	OrderID   int64   `db:"order_id"`
	ProductID int64   `db:"product_id"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"`
}

type Product struct {
	ID      int64   `db:"id"`
	Article string  `db:"article"`
	Name    string  `db:"name"`
	Price   float64 `db:"price"`
}

type Receipt struct {
	ID            int64     `db:"id"`
	OrderID       int64     `db:"order_id"`
	ReceiptNumber string    `db:"receipt_number"`
	TotalAmount   float64   `db:"total_amount"`
	CellNumber    *string   `db:"cell_number"`
	CreatedAt     time.Time `db:"created_at"`
}

type ReturnEntry struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	Reason    string    `db:"reason"`
	Amount    float64   `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

type HistoryEntry struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	Status    string    `db:"status"`
	ChangedAt time.Time `db:"changed_at"`
}

// OrderSummary is the joined row returned by order search: every column is
// addressed by name, never by ordinal position.
type OrderSummary struct {
	ID          int64     `db:"id"`
	OrderNumber string    `db:"order_number"`
	ClientName  string    `db:"client_name"`
	CellNumber  *string   `db:"cell_number"`
	Status      string    `db:"status"`
	ReceivedAt  time.Time `db:"received_at"`
}

type OrderStats struct {
	TodayOrders  int `db:"today_orders"`
	TodayIssued  int `db:"today_issued"`
	ActiveOrders int `db:"active_orders"`
}
