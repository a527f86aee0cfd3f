package cart

import (
	"context"

	domcart "example.com/ecom-backend/internal/domain/cart"
	domproduct "example.com/ecom-backend/internal/domain/product"
)

type CartRepository interface {
	domcart.Repository
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewService(cartRepo CartRepository, productRepo ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *Service) AddItem(ctx context.Context, userID, productID, quantity int64) (*domcart.Cart, error) {
	if quantity < 1 {
		return nil, domcart.ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}
	if p.Stock < quantity {
		return nil, domproduct.ErrOutOfStock
	}

	return s.cartRepo.AddItem(ctx, userID, productID, quantity)
}

func (s *Service) UpdateItem(ctx context.Context, userID, itemID, quantity int64) (*domcart.Cart, error) {
	if quantity < 1 {
		return nil, domcart.ErrInvalidQuantity
	}
	return s.cartRepo.UpdateItemQuantity(ctx, userID, itemID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) (*domcart.Cart, error) {
	return s.cartRepo.RemoveItem(ctx, userID, itemID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.cartRepo.Clear(ctx, userID)
}

// GetCart returns the active cart with product names and current prices
// attached. An absent cart reads as an empty one.
func (s *Service) GetCart(ctx context.Context, userID int64) (*domcart.DetailedCart, error) {
	c, err := s.cartRepo.GetActive(ctx, userID)
	if err != nil {
		if err == domcart.ErrCartNotFound {
			return &domcart.DetailedCart{UserID: userID, Items: []domcart.DetailedItem{}}, nil
		}
		return nil, err
	}

	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	detailed := &domcart.DetailedCart{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  make([]domcart.DetailedItem, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		p, ok := productMap[item.ProductID]
		if !ok {
			continue
		}
		detailed.Items = append(detailed.Items, domcart.DetailedItem{
			Item:         item,
			ProductName:  p.Name,
			ProductPrice: p.Price,
		})
	}
	return detailed, nil
}
