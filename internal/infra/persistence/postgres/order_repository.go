package postgres

import (
	"context"
	"database/sql"
	"errors"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domorder "example.com/ecom-backend/internal/domain/order"
	checkoutuc "example.com/ecom-backend/internal/usecase/checkout"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart is the checkout transaction. Everything happens inside
// one unit: snapshot the cart at current prices, create the order plus its
// delivery record, run the carrier booking callback, mark the cart
// ordered. If booking fails the transaction rolls back and the cart is
// exactly as it was.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID int64, sel domdelivery.Selection, contact domdelivery.Contact, book checkoutuc.BookShipmentFunc) (_ *domorder.Order, _ *domdelivery.Delivery, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var cartID int64
	err = tx.QueryRowContext(ctx, `
        SELECT id FROM carts
        WHERE user_id = $1 AND status = 'active'
        FOR UPDATE
    `, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			retErr = domorder.ErrEmptyCart
			return nil, nil, retErr
		}
		retErr = err
		return nil, nil, retErr
	}

	rows, err := tx.QueryContext(ctx, `
        SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock, p.is_active
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id = $1
        ORDER BY ci.id
        FOR UPDATE OF p
    `, cartID)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	var total float64
	var lines []domorder.Line
	for rows.Next() {
		var line domorder.Line
		var stock int64
		var active bool
		if err = rows.Scan(&line.ProductID, &line.Quantity, &line.Name, &line.UnitPrice, &stock, &active); err != nil {
			rows.Close()
			retErr = err
			return nil, nil, retErr
		}
		if !active || stock < line.Quantity {
			rows.Close()
			retErr = domorder.ErrCheckoutValidation
			return nil, nil, retErr
		}
		total += line.UnitPrice * float64(line.Quantity)
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		retErr = err
		return nil, nil, retErr
	}
	rows.Close()

	if len(lines) == 0 {
		retErr = domorder.ErrEmptyCart
		return nil, nil, retErr
	}

	o := &domorder.Order{
		UserID:      userID,
		Status:      domorder.StatusCreated,
		TotalAmount: total,
	}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO orders (user_id, status, total_amount)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, userID, o.Status, total).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	for i := range lines {
		lines[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
            INSERT INTO order_lines (order_id, product_id, product_name, unit_price, quantity)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `, o.ID, lines[i].ProductID, lines[i].Name, lines[i].UnitPrice, lines[i].Quantity).Scan(&lines[i].ID)
		if err != nil {
			retErr = err
			return nil, nil, retErr
		}
		_, err = tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - $1
            WHERE id = $2
        `, lines[i].Quantity, lines[i].ProductID)
		if err != nil {
			retErr = err
			return nil, nil, retErr
		}
	}
	o.Lines = lines

	d := &domdelivery.Delivery{
		OrderID:        o.ID,
		Carrier:        sel.Carrier,
		PointRef:       sel.PointRef,
		RecipientName:  contact.Name,
		RecipientPhone: contact.Phone,
		Status:         domdelivery.StatusPending,
	}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO deliveries (order_id, carrier, point_external_ref, recipient_name, recipient_phone, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, d.OrderID, d.Carrier, d.PointRef, d.RecipientName, d.RecipientPhone, d.Status).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	tracking, err := book(ctx, o)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	d.TrackingNumber = tracking
	d.Status = domdelivery.StatusCreatedWithCarrier
	_, err = tx.ExecContext(ctx, `
        UPDATE deliveries SET status = $1, tracking_number = $2
        WHERE id = $3
    `, d.Status, d.TrackingNumber, d.ID)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	_, err = tx.ExecContext(ctx, `UPDATE carts SET status = 'ordered' WHERE id = $1`, cartID)
	if err != nil {
		retErr = err
		return nil, nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, nil, retErr
	}
	return o, d, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, status, total_amount, created_at
        FROM orders WHERE id = $1
    `, id)

	var o domorder.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	lines, err := r.listLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, status, total_amount, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		var o domorder.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		lines, err := r.listLines(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = $1 WHERE id = $2
    `, status, id)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) listLines(ctx context.Context, orderID int64) ([]domorder.Line, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, unit_price, quantity
        FROM order_lines WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domorder.Line
	for rows.Next() {
		var line domorder.Line
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
