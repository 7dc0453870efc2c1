package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var ErrTransferAlreadyExists = errors.New("transfer already exists")

const transferColumns = `
	id, payment_key, kind, receiver, amount, status, attempts, next_attempt_at,
	ledger_transfer_id, receipt_hash, last_error, created_at, updated_at
`

type TransferRepository struct {
	db DBTX
}

func NewTransferRepository(db DBTX) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, transfer *entity.Transfer) error {
	paymentKey, err := nullableKeyValue(transfer.PaymentID)
	if err != nil {
		return err
	}

	query := `INSERT INTO transfers (` + transferColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		transfer.ID,
		paymentKey,
		transfer.Kind,
		transfer.Receiver,
		transfer.Amount.String(),
		transfer.Status,
		transfer.Attempts,
		nullableTimeValue(transfer.NextAttemptAt),
		nullableStringValue(transfer.LedgerTransferID),
		transfer.ReceiptHash,
		nullableStringValue(transfer.LastError),
		transfer.CreatedAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrTransferAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateFromStatus writes transfer only while the stored row is still in
// status from. It reports false when another writer moved the row on first.
func (r *TransferRepository) UpdateFromStatus(ctx context.Context, transfer *entity.Transfer, from entity.TransferStatus) (bool, error) {
	query := `
		UPDATE transfers SET
			status = ?,
			attempts = ?,
			next_attempt_at = ?,
			ledger_transfer_id = ?,
			last_error = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		transfer.Status,
		transfer.Attempts,
		nullableTimeValue(transfer.NextAttemptAt),
		nullableStringValue(transfer.LedgerTransferID),
		nullableStringValue(transfer.LastError),
		transfer.UpdatedAt,
		transfer.ID,
		from,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TransferRepository) FindByReceiptHash(ctx context.Context, hash string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE receipt_hash = ? LIMIT 1`
	return r.findOne(ctx, query, hash)
}

// ListDueDispatch returns pending transfers whose next attempt is due.
func (r *TransferRepository) ListDueDispatch(ctx context.Context, now time.Time, limit int32) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE status = ?
		  AND next_attempt_at IS NOT NULL
		  AND next_attempt_at <= ?
		ORDER BY next_attempt_at ASC
		LIMIT ?
	`
	return r.list(ctx, query, entity.TransferStatusPending, now, limit)
}

// ListForReconcile returns submitted transfers with no receipt since before.
func (r *TransferRepository) ListForReconcile(ctx context.Context, before time.Time, limit int32) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE status = ?
		  AND ledger_transfer_id IS NOT NULL
		  AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`
	return r.list(ctx, query, entity.TransferStatusSubmitted, before, limit)
}

func (r *TransferRepository) ListByPayment(ctx context.Context, payment *entity.Payment) ([]*entity.Transfer, error) {
	key, err := EncodeKey(payment.ID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE payment_key = ? ORDER BY created_at ASC`
	return r.list(ctx, query, key)
}

func (r *TransferRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Transfer, error) {
	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return transfer, nil
}

func (r *TransferRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*entity.Transfer, 0)
	for rows.Next() {
		item, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func scanTransfer(scan rowScanner) (*entity.Transfer, error) {
	transfer := &entity.Transfer{}
	var paymentKey []byte
	var nextAttemptAt sql.NullTime
	var ledgerTransferID sql.NullString
	var lastError sql.NullString

	err := scan.Scan(
		&transfer.ID,
		&paymentKey,
		&transfer.Kind,
		&transfer.Receiver,
		&transfer.Amount,
		&transfer.Status,
		&transfer.Attempts,
		&nextAttemptAt,
		&ledgerTransferID,
		&transfer.ReceiptHash,
		&lastError,
		&transfer.CreatedAt,
		&transfer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	transfer.PaymentID, err = keyPtrFromBytes(paymentKey)
	if err != nil {
		return nil, err
	}
	transfer.NextAttemptAt = timePtrFromNull(nextAttemptAt)
	transfer.LedgerTransferID = stringPtrFromNull(ledgerTransferID)
	transfer.LastError = stringPtrFromNull(lastError)

	return transfer, nil
}
