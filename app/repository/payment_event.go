package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

type PaymentEventRepository struct {
	db DBTX
}

func NewPaymentEventRepository(db DBTX) *PaymentEventRepository {
	return &PaymentEventRepository{db: db}
}

func (r *PaymentEventRepository) Create(ctx context.Context, event *entity.PaymentEvent) error {
	paymentKey, err := nullableKeyValue(event.PaymentID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payment_events (
			payment_key, event_type, caller, old_status, new_status, payload_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var oldStatus *int32
	if event.OldStatus != nil {
		s := int32(*event.OldStatus)
		oldStatus = &s
	}

	result, err := r.db.ExecContext(ctx, query,
		paymentKey,
		event.EventType,
		event.Caller,
		nullableInt32Value(oldStatus),
		event.NewStatus,
		nullableStringValue(event.PayloadJSON),
		event.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = uint64(id)

	return nil
}

// ListByPayment returns the audit trail of one payment, oldest first.
func (r *PaymentEventRepository) ListByPayment(ctx context.Context, payment *entity.Payment) ([]*entity.PaymentEvent, error) {
	key, err := EncodeKey(payment.ID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, payment_key, event_type, caller, old_status, new_status, payload_json, created_at
		FROM payment_events
		WHERE payment_key = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*entity.PaymentEvent, 0)
	for rows.Next() {
		event := &entity.PaymentEvent{}
		var paymentKey []byte
		var oldStatus sql.NullInt32
		var payload sql.NullString
		if err := rows.Scan(&event.ID, &paymentKey, &event.EventType, &event.Caller, &oldStatus, &event.NewStatus, &payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		if event.PaymentID, err = keyPtrFromBytes(paymentKey); err != nil {
			return nil, err
		}
		if old := int32PtrFromNull(oldStatus); old != nil {
			s := entity.PaymentStatus(*old)
			event.OldStatus = &s
		}
		event.PayloadJSON = stringPtrFromNull(payload)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
