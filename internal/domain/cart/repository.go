package cart

import "context"

type Repository interface {
	// GetActive returns the user's single active cart, or ErrCartNotFound.
	GetActive(ctx context.Context, userID int64) (*Cart, error)
	// AddItem creates the active cart lazily and adds the product to it.
	// If a line for the same product already exists its quantity is
	// incremented instead of a duplicate line being created.
	AddItem(ctx context.Context, userID, productID, quantity int64) (*Cart, error)
	// UpdateItemQuantity replaces the quantity of an existing line.
	UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*Cart, error)
	Clear(ctx context.Context, userID int64) error
}
