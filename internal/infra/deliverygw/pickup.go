package deliverygw

import (
	"context"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domorder "example.com/ecom-backend/internal/domain/order"
)

// PickupGateway handles self-pickup. There is no remote booking step:
// creating a shipment only validates that the chosen point exists.
type PickupGateway struct {
	refs domdelivery.ReferenceRepository
}

func NewPickupGateway(refs domdelivery.ReferenceRepository) *PickupGateway {
	return &PickupGateway{refs: refs}
}

func (g *PickupGateway) Regions(ctx context.Context) ([]domdelivery.Region, error) {
	return g.refs.Regions(ctx, domdelivery.CarrierPickup)
}

func (g *PickupGateway) Cities(ctx context.Context, regionRef string) ([]domdelivery.City, error) {
	return g.refs.Cities(ctx, domdelivery.CarrierPickup, regionRef)
}

func (g *PickupGateway) Points(ctx context.Context, cityRef string) ([]domdelivery.Point, error) {
	return g.refs.Points(ctx, domdelivery.CarrierPickup, cityRef)
}

func (g *PickupGateway) CreateShipment(ctx context.Context, o *domorder.Order, sel domdelivery.Selection, contact domdelivery.Contact) (string, error) {
	point, err := g.refs.GetPoint(ctx, domdelivery.CarrierPickup, sel.PointRef)
	if err != nil {
		return "", err
	}
	if !point.IsActive {
		return "", domdelivery.ErrPointNotFound
	}
	// Self-pickup has no tracking number.
	return "", nil
}
