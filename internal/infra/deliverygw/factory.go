package deliverygw

import (
	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	"example.com/ecom-backend/internal/domain/gateway"
)

// Factory resolves a carrier enum value to its gateway adapter. The
// registry is built once at process start; Resolve is a pure lookup.
type Factory struct {
	gateways map[domdelivery.Carrier]domdelivery.Gateway
}

func NewFactory(nova *NovaPoshtaGateway, pickup *PickupGateway) *Factory {
	return &Factory{
		gateways: map[domdelivery.Carrier]domdelivery.Gateway{
			domdelivery.CarrierNovaPoshta: nova,
			domdelivery.CarrierPickup:     pickup,
		},
	}
}

func (f *Factory) Resolve(carrier domdelivery.Carrier) (domdelivery.Gateway, error) {
	gw, ok := f.gateways[carrier]
	if !ok {
		return nil, gateway.ErrUnsupported
	}
	return gw, nil
}
