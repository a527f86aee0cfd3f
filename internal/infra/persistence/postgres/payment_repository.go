package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const paidEventTopic = "orders.paid"

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateForOrder inserts the pending payment and moves the order to
// awaiting_payment in one transaction. The unique constraint on order_id
// guarantees at most one payment per order.
func (r *PaymentRepository) CreateForOrder(ctx context.Context, p *dompayment.Payment) (_ *dompayment.Payment, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var status domorder.Status
	err = tx.QueryRowContext(ctx, `
        SELECT status FROM orders WHERE id = $1 FOR UPDATE
    `, p.OrderID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			retErr = domorder.ErrOrderNotFound
			return nil, retErr
		}
		retErr = err
		return nil, retErr
	}
	if !status.Payable() {
		retErr = domorder.ErrInvalidStatus
		return nil, retErr
	}

	err = tx.QueryRowContext(ctx, `
        INSERT INTO payments (order_id, provider, external_ref, amount, currency, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (order_id) DO NOTHING
        RETURNING id, created_at, updated_at
    `, p.OrderID, p.Provider, p.ExternalRef, p.Amount, p.Currency, p.Status).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			retErr = dompayment.ErrPaymentExists
			return nil, retErr
		}
		retErr = err
		return nil, retErr
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE orders SET status = $1 WHERE id = $2
    `, domorder.StatusAwaitingPayment, p.OrderID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return p, nil
}

func (r *PaymentRepository) GetByExternalRef(ctx context.Context, ref string) (*dompayment.Payment, error) {
	return r.getBy(ctx, `external_ref = $1`, ref)
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*dompayment.Payment, error) {
	return r.getBy(ctx, `order_id = $1`, orderID)
}

func (r *PaymentRepository) getBy(ctx context.Context, cond string, arg any) (*dompayment.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, order_id, provider, external_ref, amount, currency, status, created_at, updated_at
        FROM payments WHERE `+cond, arg)

	var p dompayment.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.ExternalRef, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dompayment.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ApplyCallback is the atomic check-then-transition per payment row. A
// payment already in a terminal status is returned unchanged with
// Applied=false, so duplicate callbacks never double-apply. On success the
// fulfillment event goes into the outbox inside the same transaction.
func (r *PaymentRepository) ApplyCallback(ctx context.Context, ref string, status dompayment.Status, raw []byte) (_ *dompayment.CallbackResult, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `
        SELECT id, order_id, provider, external_ref, amount, currency, status, created_at, updated_at
        FROM payments WHERE external_ref = $1
        FOR UPDATE
    `, ref)

	var p dompayment.Payment
	err = row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.ExternalRef, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			retErr = dompayment.ErrPaymentNotFound
			return nil, retErr
		}
		retErr = err
		return nil, retErr
	}

	if p.Status.Terminal() {
		_ = tx.Rollback()
		return &dompayment.CallbackResult{Payment: &p, Applied: false}, nil
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE payments SET status = $1, raw_callback = $2, updated_at = now()
        WHERE id = $3
    `, status, raw, p.ID)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	p.Status = status
	p.RawCallback = raw

	orderStatus := domorder.StatusFailed
	if status == dompayment.StatusSucceeded {
		orderStatus = domorder.StatusPaid
	}
	_, err = tx.ExecContext(ctx, `
        UPDATE orders SET status = $1 WHERE id = $2
    `, orderStatus, p.OrderID)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if status == dompayment.StatusSucceeded {
		payload, err := json.Marshal(map[string]any{
			"order_id":   p.OrderID,
			"payment_id": p.ID,
			"amount":     p.Amount,
			"currency":   p.Currency,
		})
		if err != nil {
			retErr = err
			return nil, retErr
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO outbox (topic, event_key, payload)
            VALUES ($1, $2, $3)
        `, paidEventTopic, strconv.FormatInt(p.OrderID, 10), payload)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return &dompayment.CallbackResult{Payment: &p, Applied: true}, nil
}
