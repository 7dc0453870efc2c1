package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrOrderAlreadyBound = errors.New("order already bound to a payment")

// OrderRepository is the order_id -> payment_id index. Entries are never
// removed.
type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Bind(ctx context.Context, orderID, paymentID decimal.Decimal) error {
	orderKey, err := EncodeKey(orderID)
	if err != nil {
		return err
	}
	paymentKey, err := EncodeKey(paymentID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO payment_orders (order_key, payment_key) VALUES (?, ?)`, orderKey, paymentKey)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderAlreadyBound
		}
		return err
	}
	return nil
}

// FindPaymentID returns nil when the order is not bound.
func (r *OrderRepository) FindPaymentID(ctx context.Context, orderID decimal.Decimal) (*decimal.Decimal, error) {
	orderKey, err := EncodeKey(orderID)
	if err != nil {
		return nil, nil
	}

	var paymentKey []byte
	err = r.db.QueryRowContext(ctx, `SELECT payment_key FROM payment_orders WHERE order_key = ?`, orderKey).Scan(&paymentKey)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return keyPtrFromBytes(paymentKey)
}
