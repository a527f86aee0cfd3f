package product

import "context"

// Repository is the read-only view of the catalog the transactional core
// needs; catalog management itself lives outside this codebase.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Product, error)
}
