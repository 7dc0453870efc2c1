package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment already exists")
)

type PaymentFilter struct {
	Shop      string
	User      string
	HasStatus bool
	Status    entity.PaymentStatus
	Limit     int32
	Offset    int32
}

// PaymentRepository stores payments as versioned envelopes keyed by the
// 16-byte payment id. Status and parties are denormalized for listing only.
type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	key, err := EncodeKey(payment.ID)
	if err != nil {
		return err
	}
	envelope, err := EncodeEnvelope(payment)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payment_records (
			payment_key, envelope, status, shop_account, user_account, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		key,
		envelope,
		payment.Status,
		payment.Shop,
		payment.User,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPaymentAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	key, err := EncodeKey(payment.ID)
	if err != nil {
		return err
	}
	envelope, err := EncodeEnvelope(payment)
	if err != nil {
		return err
	}

	query := `
		UPDATE payment_records SET
			envelope = ?,
			status = ?,
			updated_at = ?
		WHERE payment_key = ?
	`

	result, err := r.db.ExecContext(ctx, query, envelope, payment.Status, payment.UpdatedAt, key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id decimal.Decimal) (*entity.Payment, error) {
	key, err := EncodeKey(id)
	if err != nil {
		return nil, nil
	}

	query := `
		SELECT envelope, created_at, updated_at
		FROM payment_records
		WHERE payment_key = ?
	`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, error) {
	query := `
		SELECT envelope, created_at, updated_at
		FROM payment_records
	`

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)

	if strings.TrimSpace(filter.Shop) != "" {
		conditions = append(conditions, "shop_account = ?")
		args = append(args, filter.Shop)
	}
	if strings.TrimSpace(filter.User) != "" {
		conditions = append(conditions, "user_account = ?")
		args = append(args, filter.User)
	}
	if filter.HasStatus {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY payment_key DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		item, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

func scanPayment(scan rowScanner) (*entity.Payment, error) {
	var envelope []byte
	var createdAt, updatedAt sql.NullTime

	if err := scan.Scan(&envelope, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	payment, err := DecodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}
