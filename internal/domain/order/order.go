package order

import "time"

type Status string

const (
	StatusCreated         Status = "created"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusFailed          Status = "failed"
	StatusCancelled       Status = "cancelled"
	StatusFulfilled       Status = "fulfilled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusAwaitingPayment, StatusPaid, StatusFailed, StatusCancelled, StatusFulfilled:
		return true
	default:
		return false
	}
}

// Payable reports whether a payment session may still be opened.
func (s Status) Payable() bool {
	return s == StatusCreated || s == StatusAwaitingPayment
}

// Cancellable reports whether the order may still be cancelled by its owner.
func (s Status) Cancellable() bool {
	switch s {
	case StatusFulfilled, StatusCancelled, StatusFailed:
		return false
	default:
		return true
	}
}

type Order struct {
	ID          int64
	UserID      int64
	Status      Status
	TotalAmount float64
	Lines       []Line
	CreatedAt   time.Time
}

// Line is an immutable snapshot of a cart item at checkout time. Unit
// prices never change after creation even if catalog prices do.
type Line struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int64
}
