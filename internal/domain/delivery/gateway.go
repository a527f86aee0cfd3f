package delivery

import (
	"context"

	domorder "example.com/ecom-backend/internal/domain/order"
)

// Gateway is the contract every carrier adapter implements. Listing
// operations read from the local reference cache; CreateShipment may call
// the carrier network for carriers with programmatic booking.
type Gateway interface {
	Regions(ctx context.Context) ([]Region, error)
	Cities(ctx context.Context, regionRef string) ([]City, error)
	Points(ctx context.Context, cityRef string) ([]Point, error)
	// CreateShipment books the shipment and returns the carrier tracking
	// number, which may be empty for carriers without one.
	CreateShipment(ctx context.Context, o *domorder.Order, sel Selection, contact Contact) (string, error)
}
