package order

import (
	"context"

	domorder "example.com/ecom-backend/internal/domain/order"
)

type OrderRepository interface {
	domorder.Repository
}

type Service struct {
	orderRepo OrderRepository
}

func NewService(orderRepo OrderRepository) *Service {
	return &Service{orderRepo: orderRepo}
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*domorder.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// Cancel transitions the order to cancelled unless it already reached a
// terminal state or was fulfilled.
func (s *Service) Cancel(ctx context.Context, userID, orderID int64) (*domorder.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	if !o.Status.Cancellable() {
		return nil, domorder.ErrInvalidStatus
	}
	return s.orderRepo.UpdateStatus(ctx, orderID, domorder.StatusCancelled)
}
