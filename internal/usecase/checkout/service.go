package checkout

import (
	"context"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domorder "example.com/ecom-backend/internal/domain/order"
)

// BookShipmentFunc runs inside the checkout transaction, after the order
// rows are staged and before commit. Returning an error rolls the whole
// checkout back.
type BookShipmentFunc func(ctx context.Context, o *domorder.Order) (tracking string, err error)

type OrderRepository interface {
	// CreateFromCart materializes the user's active cart into an order plus
	// a delivery record in one atomic transaction: snapshot lines at
	// current prices, compute the total, run the booking callback, mark
	// the cart ordered. Any failure leaves the cart untouched.
	CreateFromCart(ctx context.Context, userID int64, sel domdelivery.Selection, contact domdelivery.Contact, book BookShipmentFunc) (*domorder.Order, *domdelivery.Delivery, error)
}

type DeliveryFactory interface {
	Resolve(carrier domdelivery.Carrier) (domdelivery.Gateway, error)
}

type Result struct {
	Order    *domorder.Order
	Delivery *domdelivery.Delivery
}

type Service struct {
	orderRepo OrderRepository
	carriers  DeliveryFactory
}

func NewService(orderRepo OrderRepository, carriers DeliveryFactory) *Service {
	return &Service{
		orderRepo: orderRepo,
		carriers:  carriers,
	}
}

// Checkout turns the active cart into an order with a delivery record.
// Opening the payment session is a separate step so the frontend can show
// the order before redirecting to a provider.
func (s *Service) Checkout(ctx context.Context, userID int64, sel domdelivery.Selection, contact domdelivery.Contact) (*Result, error) {
	// Resolved before any database mutation: an unknown carrier must not
	// leave partial state behind.
	gw, err := s.carriers.Resolve(sel.Carrier)
	if err != nil {
		return nil, err
	}

	if contact.Name == "" || contact.Phone == "" {
		return nil, domdelivery.ErrInvalidContact
	}

	o, d, err := s.orderRepo.CreateFromCart(ctx, userID, sel, contact, func(ctx context.Context, o *domorder.Order) (string, error) {
		return gw.CreateShipment(ctx, o, sel, contact)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Order: o, Delivery: d}, nil
}
