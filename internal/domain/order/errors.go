package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("operation not allowed in current order status")
	ErrEmptyCart          = errors.New("no items to checkout")
	ErrCheckoutValidation = errors.New("checkout validation failed")
)
