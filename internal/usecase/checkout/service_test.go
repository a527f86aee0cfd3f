package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domgateway "example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
)

// --- Mocks ---

type mockOrderRepository struct {
	order     *domorder.Order
	createErr error

	// committed flips to true only when the booking callback succeeded,
	// mirroring the all-or-nothing transaction.
	committed bool
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, userID int64, sel domdelivery.Selection, contact domdelivery.Contact, book BookShipmentFunc) (*domorder.Order, *domdelivery.Delivery, error) {
	if m.createErr != nil {
		return nil, nil, m.createErr
	}

	o := m.order
	if o == nil {
		o = &domorder.Order{
			ID:          1,
			UserID:      userID,
			Status:      domorder.StatusCreated,
			TotalAmount: 25.0,
			Lines: []domorder.Line{
				{ProductID: 1, Name: "Keyboard", UnitPrice: 10.0, Quantity: 2},
				{ProductID: 2, Name: "Cable", UnitPrice: 5.0, Quantity: 1},
			},
			CreatedAt: time.Now(),
		}
	}

	tracking, err := book(ctx, o)
	if err != nil {
		return nil, nil, err
	}
	m.committed = true

	d := &domdelivery.Delivery{
		ID:             1,
		OrderID:        o.ID,
		Carrier:        sel.Carrier,
		PointRef:       sel.PointRef,
		RecipientName:  contact.Name,
		RecipientPhone: contact.Phone,
		TrackingNumber: tracking,
		Status:         domdelivery.StatusCreatedWithCarrier,
	}
	return o, d, nil
}

type mockDeliveryGateway struct {
	tracking    string
	shipmentErr error
	calls       int
}

func (m *mockDeliveryGateway) Regions(ctx context.Context) ([]domdelivery.Region, error) {
	return nil, nil
}

func (m *mockDeliveryGateway) Cities(ctx context.Context, regionRef string) ([]domdelivery.City, error) {
	return nil, nil
}

func (m *mockDeliveryGateway) Points(ctx context.Context, cityRef string) ([]domdelivery.Point, error) {
	return nil, nil
}

func (m *mockDeliveryGateway) CreateShipment(ctx context.Context, o *domorder.Order, sel domdelivery.Selection, contact domdelivery.Contact) (string, error) {
	m.calls++
	if m.shipmentErr != nil {
		return "", m.shipmentErr
	}
	return m.tracking, nil
}

type mockDeliveryFactory struct {
	gateways map[domdelivery.Carrier]domdelivery.Gateway
}

func (m *mockDeliveryFactory) Resolve(carrier domdelivery.Carrier) (domdelivery.Gateway, error) {
	gw, ok := m.gateways[carrier]
	if !ok {
		return nil, domgateway.ErrUnsupported
	}
	return gw, nil
}

func newTestCheckout(gw *mockDeliveryGateway) (*Service, *mockOrderRepository) {
	repo := &mockOrderRepository{}
	factory := &mockDeliveryFactory{
		gateways: map[domdelivery.Carrier]domdelivery.Gateway{
			domdelivery.CarrierNovaPoshta: gw,
		},
	}
	return NewService(repo, factory), repo
}

var testSelection = domdelivery.Selection{Carrier: domdelivery.CarrierNovaPoshta, PointRef: "WH-1"}
var testContact = domdelivery.Contact{Name: "Olena", Phone: "+380501112233"}

// --- Test Cases ---

func TestCheckout_Success(t *testing.T) {
	gw := &mockDeliveryGateway{tracking: "20400012345678"}
	svc, repo := newTestCheckout(gw)

	res, err := svc.Checkout(context.Background(), 100, testSelection, testContact)
	require.NoError(t, err)
	require.True(t, repo.committed)
	require.Equal(t, 1, gw.calls)

	require.Equal(t, domorder.StatusCreated, res.Order.Status)
	require.InDelta(t, 25.0, res.Order.TotalAmount, 0.001)
	require.Equal(t, "20400012345678", res.Delivery.TrackingNumber)
	require.Equal(t, domdelivery.CarrierNovaPoshta, res.Delivery.Carrier)
}

func TestCheckout_UnknownCarrier(t *testing.T) {
	gw := &mockDeliveryGateway{}
	svc, repo := newTestCheckout(gw)

	_, err := svc.Checkout(context.Background(), 100,
		domdelivery.Selection{Carrier: "drone", PointRef: "WH-1"}, testContact)
	require.ErrorIs(t, err, domgateway.ErrUnsupported)
	require.False(t, repo.committed)
	require.Zero(t, gw.calls)
}

func TestCheckout_MissingContactFields(t *testing.T) {
	gw := &mockDeliveryGateway{}
	svc, repo := newTestCheckout(gw)

	_, err := svc.Checkout(context.Background(), 100, testSelection,
		domdelivery.Contact{Name: "", Phone: "+380501112233"})
	require.ErrorIs(t, err, domdelivery.ErrInvalidContact)

	_, err = svc.Checkout(context.Background(), 100, testSelection,
		domdelivery.Contact{Name: "Olena", Phone: ""})
	require.ErrorIs(t, err, domdelivery.ErrInvalidContact)

	require.False(t, repo.committed)
}

func TestCheckout_BookingFailureRollsBack(t *testing.T) {
	bookErr := domgateway.Wrap("novaposhta", errors.New("api unavailable"))
	gw := &mockDeliveryGateway{shipmentErr: bookErr}
	svc, repo := newTestCheckout(gw)

	_, err := svc.Checkout(context.Background(), 100, testSelection, testContact)
	require.Error(t, err)
	require.True(t, domgateway.Is(err))
	require.Equal(t, 1, gw.calls)
	require.False(t, repo.committed)
}

func TestCheckout_EmptyCart(t *testing.T) {
	gw := &mockDeliveryGateway{}
	svc, repo := newTestCheckout(gw)
	repo.createErr = domorder.ErrEmptyCart

	_, err := svc.Checkout(context.Background(), 100, testSelection, testContact)
	require.ErrorIs(t, err, domorder.ErrEmptyCart)
}
