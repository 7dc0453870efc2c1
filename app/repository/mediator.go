package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var ErrMediatorAlreadyExists = errors.New("mediator already initialized")

// mediatorRowID pins the singleton row.
const mediatorRowID = 1

type MediatorRepository struct {
	db      DBTX
	dialect Dialect
}

func NewMediatorRepository(db DBTX, dialect Dialect) *MediatorRepository {
	return &MediatorRepository{db: db, dialect: dialect}
}

func (r *MediatorRepository) Create(ctx context.Context, m *entity.Mediator) error {
	query := `
		INSERT INTO mediator_state (
			id, owner, last_payment_id, fee_rate, fee_accrued_total, fee_withdrawn_total, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		mediatorRowID,
		m.Owner,
		m.LastPaymentID.String(),
		m.FeeRate.String(),
		m.FeeAccruedTotal.String(),
		m.FeeWithdrawnTotal.String(),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrMediatorAlreadyExists
		}
		return err
	}
	return nil
}

// Get returns nil when the mediator was never initialized. forUpdate locks the
// row until the surrounding transaction ends.
func (r *MediatorRepository) Get(ctx context.Context, forUpdate bool) (*entity.Mediator, error) {
	query := `
		SELECT owner, last_payment_id, fee_rate, fee_accrued_total, fee_withdrawn_total, created_at, updated_at
		FROM mediator_state
		WHERE id = ?
	`
	if forUpdate {
		query += r.dialect.lockClause()
	}

	m := &entity.Mediator{}
	err := r.db.QueryRowContext(ctx, query, mediatorRowID).Scan(
		&m.Owner,
		&m.LastPaymentID,
		&m.FeeRate,
		&m.FeeAccruedTotal,
		&m.FeeWithdrawnTotal,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return m, nil
}

// Update does not check affected rows: MySQL reports unchanged rows as zero.
func (r *MediatorRepository) Update(ctx context.Context, m *entity.Mediator) error {
	query := `
		UPDATE mediator_state SET
			last_payment_id = ?,
			fee_rate = ?,
			fee_accrued_total = ?,
			fee_withdrawn_total = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		m.LastPaymentID.String(),
		m.FeeRate.String(),
		m.FeeAccruedTotal.String(),
		m.FeeWithdrawnTotal.String(),
		m.UpdatedAt,
		mediatorRowID,
	)
	return err
}
