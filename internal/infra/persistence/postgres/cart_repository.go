package postgres

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/ecom-backend/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetActive(ctx context.Context, userID int64) (*domcart.Cart, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, status
        FROM carts
        WHERE user_id = $1 AND status = 'active'
    `, userID)

	var c domcart.Cart
	if err := row.Scan(&c.ID, &c.UserID, &c.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrCartNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, r.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *CartRepository) AddItem(ctx context.Context, userID, productID, quantity int64) (_ *domcart.Cart, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	// The partial unique index on (user_id) WHERE status='active' makes the
	// lazy create race-free: concurrent adds converge on one cart row.
	_, err = tx.ExecContext(ctx, `
        INSERT INTO carts (user_id, status)
        VALUES ($1, 'active')
        ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING
    `, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	cartID, err := lockActiveCart(ctx, tx, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO cart_items (cart_id, product_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (cart_id, product_id)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
    `, cartID, productID, quantity)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	c, err := r.loadCartTx(ctx, tx, cartID, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return c, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (_ *domcart.Cart, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	cartID, err := lockActiveCart(ctx, tx, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE cart_items SET quantity = $1
        WHERE id = $2 AND cart_id = $3
    `, quantity, itemID, cartID)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		retErr = domcart.ErrItemNotFound
		return nil, retErr
	}

	c, err := r.loadCartTx(ctx, tx, cartID, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return c, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, itemID int64) (_ *domcart.Cart, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	cartID, err := lockActiveCart(ctx, tx, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	res, err := tx.ExecContext(ctx, `
        DELETE FROM cart_items
        WHERE id = $1 AND cart_id = $2
    `, itemID, cartID)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		retErr = domcart.ErrItemNotFound
		return nil, retErr
	}

	c, err := r.loadCartTx(ctx, tx, cartID, userID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return c, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	cartID, err := lockActiveCart(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, domcart.ErrCartNotFound) {
			_ = tx.Rollback()
			return nil
		}
		retErr = err
		return retErr
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		retErr = err
		return retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return retErr
	}
	return nil
}

// lockActiveCart serializes all mutations of one user's cart on the cart
// row itself.
func lockActiveCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	err := tx.QueryRowContext(ctx, `
        SELECT id FROM carts
        WHERE user_id = $1 AND status = 'active'
        FOR UPDATE
    `, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domcart.ErrCartNotFound
	}
	return cartID, err
}

func (r *CartRepository) loadCartTx(ctx context.Context, tx *sql.Tx, cartID, userID int64) (*domcart.Cart, error) {
	items, err := r.listItems(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	return &domcart.Cart{
		ID:     cartID,
		UserID: userID,
		Status: domcart.StatusActive,
		Items:  items,
	}, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *CartRepository) listItems(ctx context.Context, q querier, cartID int64) ([]domcart.Item, error) {
	rows, err := q.QueryContext(ctx, `
        SELECT id, product_id, quantity
        FROM cart_items
        WHERE cart_id = $1
        ORDER BY id
    `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domcart.Item
	for rows.Next() {
		var item domcart.Item
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
