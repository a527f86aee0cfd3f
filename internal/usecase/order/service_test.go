package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domorder "example.com/ecom-backend/internal/domain/order"
)

type mockOrderRepository struct {
	orders map[int64]*domorder.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: map[int64]*domorder.Order{
			1: {ID: 1, UserID: 100, Status: domorder.StatusCreated, TotalAmount: 25.0},
			2: {ID: 2, UserID: 100, Status: domorder.StatusPaid, TotalAmount: 50.0},
			3: {ID: 3, UserID: 200, Status: domorder.StatusCreated, TotalAmount: 10.0},
			4: {ID: 4, UserID: 100, Status: domorder.StatusFulfilled, TotalAmount: 30.0},
			5: {ID: 5, UserID: 100, Status: domorder.StatusCancelled, TotalAmount: 15.0},
		},
	}
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	cloned := *o
	return &cloned, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	var result []*domorder.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cloned := *o
			result = append(result, &cloned)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	cloned := *o
	return &cloned, nil
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	o, err := svc.GetOrder(context.Background(), 100, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), o.ID)

	// Another user's order reads as missing, not forbidden.
	_, err = svc.GetOrder(context.Background(), 100, 3)
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}

func TestListOrders_OnlyOwn(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	orders, err := svc.ListOrders(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(3), orders[0].ID)
}

func TestCancel_Success(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	o, err := svc.Cancel(context.Background(), 100, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusCancelled, o.Status)
}

func TestCancel_PaidOrderStillCancellable(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	o, err := svc.Cancel(context.Background(), 100, 2)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusCancelled, o.Status)
}

func TestCancel_FulfilledOrderRejected(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	_, err := svc.Cancel(context.Background(), 100, 4)
	require.ErrorIs(t, err, domorder.ErrInvalidStatus)
}

func TestCancel_AlreadyCancelledRejected(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	_, err := svc.Cancel(context.Background(), 100, 5)
	require.ErrorIs(t, err, domorder.ErrInvalidStatus)
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	_, err := svc.Cancel(context.Background(), 100, 3)
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}
