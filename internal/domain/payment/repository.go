package payment

import "context"

// CallbackResult reports the outcome of an ApplyCallback call. Applied is
// false when the payment was already terminal and the call was a no-op.
type CallbackResult struct {
	Payment *Payment
	Applied bool
}

type Repository interface {
	// CreateForOrder inserts a pending payment and moves its order to
	// awaiting_payment in one atomic unit. Fails with ErrPaymentExists if
	// the order already has a payment, or order.ErrInvalidStatus if the
	// order is no longer payable.
	CreateForOrder(ctx context.Context, p *Payment) (*Payment, error)
	GetByExternalRef(ctx context.Context, ref string) (*Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Payment, error)
	// ApplyCallback transitions the payment identified by ref to status and
	// its order accordingly, storing the raw payload for audit. The
	// check-then-transition is one atomic unit per payment row so that
	// concurrent duplicate callbacks apply at most once.
	ApplyCallback(ctx context.Context, ref string, status Status, raw []byte) (*CallbackResult, error)
}
