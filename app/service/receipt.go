package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

type handleTransferReceiptRequest interface {
	GetReceiptHash() string
	GetSignature() string
	GetPayload() string
}

// HandleTransferReceipt applies a signed settlement notification from the
// ledger to the matching outbox transfer. Receipts for transfers that are
// already settled or failed are stored and acknowledged without change.
func (s *EscrowService) HandleTransferReceipt(ctx context.Context, req handleTransferReceiptRequest) (*entity.Transfer, error) {
	payload := []byte(req.GetPayload())
	signature := strings.TrimSpace(req.GetSignature())
	receipt, err := s.ledger.VerifyAndParseReceipt(ctx, payload, signature)
	if err != nil {
		s.persistRejectedReceipt(ctx, nil, req, fmt.Sprintf("ledger receipt validation failed: %v", err))
		return nil, ErrReceiptRejected
	}
	if receipt == nil {
		s.persistRejectedReceipt(ctx, nil, req, "ledger receipt payload could not be parsed")
		return nil, ErrReceiptRejected
	}

	repos := s.store.Repositories()
	receiptHash := strings.TrimSpace(req.GetReceiptHash())
	transfer, err := repos.Transfers.FindByReceiptHash(ctx, receiptHash)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		s.persistRejectedReceipt(ctx, nil, req, "transfer not found for receipt hash")
		return nil, ErrNotFound
	}
	if receipt.IdempotencyKey != "" && receipt.IdempotencyKey != transfer.ID {
		s.persistRejectedReceipt(ctx, &transfer.ID, req, "receipt idempotency key does not match transfer")
		return nil, ErrReceiptRejected
	}

	now := s.now().UTC()
	if !transfer.Status.Terminal() && receipt.Status != entity.TransferStatusUnspecified {
		previous := transfer.Status
		transfer.Status = receipt.Status
		if id := strings.TrimSpace(receipt.LedgerTransferID); id != "" {
			transfer.LedgerTransferID = &id
		}
		if receipt.Status == entity.TransferStatusFailed {
			reason := strings.TrimSpace(receipt.FailureReason)
			if reason == "" {
				reason = "ledger reported transfer failed"
			}
			reason = truncate(reason, 1024)
			transfer.LastError = &reason
		}
		transfer.NextAttemptAt = nil
		transfer.UpdatedAt = now

		updated, err := repos.Transfers.UpdateFromStatus(ctx, transfer, previous)
		if err != nil {
			return nil, err
		}

		if !updated {
			s.logTransferMovedOn(transfer, previous)
		} else {
			switch transfer.Status {
			case entity.TransferStatusFailed:
				s.flagFailedTransfer(ctx, transfer, now, receipt.EventID)
			case entity.TransferStatusSettled:
				s.recordTransferEvent(ctx, transfer, "transfer_settled", now, nil, receipt.EventID)
			}
		}
	}

	transferID := transfer.ID
	if err := repos.Receipts.Create(ctx, &entity.TransferReceipt{
		TransferID:  &transferID,
		ReceiptHash: receiptHash,
		Signature:   signature,
		PayloadJSON: string(payload),
		Status:      entity.TransferReceiptProcessed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}

	return transfer, nil
}

func (s *EscrowService) persistRejectedReceipt(
	ctx context.Context,
	transferID *string,
	req handleTransferReceiptRequest,
	reason string,
) {
	now := s.now().UTC()
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "receipt rejected"
	}
	trimmedErr := truncate(reason, 1024)
	_ = s.store.Repositories().Receipts.Create(ctx, &entity.TransferReceipt{
		TransferID:  transferID,
		ReceiptHash: strings.TrimSpace(req.GetReceiptHash()),
		Signature:   strings.TrimSpace(req.GetSignature()),
		PayloadJSON: req.GetPayload(),
		Status:      entity.TransferReceiptRejected,
		Error:       &trimmedErr,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
