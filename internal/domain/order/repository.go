package order

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
