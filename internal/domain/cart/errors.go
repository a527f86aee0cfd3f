package cart

import "errors"

var (
	ErrCartNotFound    = errors.New("active cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
