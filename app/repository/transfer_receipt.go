package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

type TransferReceiptRepository struct {
	db DBTX
}

func NewTransferReceiptRepository(db DBTX) *TransferReceiptRepository {
	return &TransferReceiptRepository{db: db}
}

func (r *TransferReceiptRepository) Create(ctx context.Context, receipt *entity.TransferReceipt) error {
	query := `
		INSERT INTO transfer_receipts (
			transfer_id, receipt_hash, signature, payload_json, status, error, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(receipt.TransferID),
		receipt.ReceiptHash,
		receipt.Signature,
		receipt.PayloadJSON,
		receipt.Status,
		nullableStringValue(receipt.Error),
		receipt.CreatedAt,
		receipt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	receipt.ID = uint64(id)

	return nil
}
