package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
)

// RunDispatchTransfersBatch submits due pending transfers to the ledger.
// A failed submission is retried until MaxAttempts, then the transfer is
// flagged FAILED. The lifecycle call that produced it is never undone.
func (s *EscrowService) RunDispatchTransfersBatch(ctx context.Context) error {
	now := s.now().UTC()
	items, err := s.store.Repositories().Transfers.ListDueDispatch(ctx, now, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, transfer := range items {
		if transfer == nil || transfer.Status != entity.TransferStatusPending {
			continue
		}
		if err := s.dispatchTransfer(ctx, transfer, now); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

// RunReconcileTransfersBatch polls the ledger for submitted transfers whose
// receipt never arrived.
func (s *EscrowService) RunReconcileTransfersBatch(ctx context.Context) error {
	now := s.now().UTC()
	before := now.Add(-s.transfersCfg.ReconcileStaleAfter)
	repos := s.store.Repositories()
	items, err := repos.Transfers.ListForReconcile(ctx, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, transfer := range items {
		if transfer == nil || transfer.LedgerTransferID == nil || strings.TrimSpace(*transfer.LedgerTransferID) == "" {
			continue
		}

		newStatus, err := s.ledger.GetTransferStatus(ctx, strings.TrimSpace(*transfer.LedgerTransferID))
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}
		if newStatus == entity.TransferStatusUnspecified || newStatus == transfer.Status {
			continue
		}

		previous := transfer.Status
		transfer.Status = newStatus
		transfer.UpdatedAt = now
		if newStatus == entity.TransferStatusFailed {
			reason := "ledger reported transfer failed"
			transfer.LastError = &reason
		}
		updated, err := repos.Transfers.UpdateFromStatus(ctx, transfer, previous)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}
		if !updated {
			s.logTransferMovedOn(transfer, previous)
			continue
		}

		switch newStatus {
		case entity.TransferStatusFailed:
			s.flagFailedTransfer(ctx, transfer, now, nil)
		case entity.TransferStatusSettled:
			s.recordTransferEvent(ctx, transfer, "transfer_reconciled", now, nil, nil)
		}
	}

	return firstErr
}

func (s *EscrowService) dispatchTransfer(ctx context.Context, transfer *entity.Transfer, now time.Time) error {
	out, err := s.ledger.Transfer(ctx, &ledger.TransferInput{
		IdempotencyKey: transfer.ID,
		ReceiptHash:    transfer.ReceiptHash,
		Kind:           transfer.Kind,
		Receiver:       transfer.Receiver,
		Amount:         transfer.Amount,
		PaymentID:      transfer.PaymentID,
	})
	if err != nil {
		return s.recordDispatchFailure(ctx, transfer, now, err)
	}

	previous := transfer.Status
	transfer.Attempts++
	transfer.Status = entity.TransferStatusSubmitted
	if out.Status == entity.TransferStatusSettled {
		transfer.Status = entity.TransferStatusSettled
	}
	if id := strings.TrimSpace(out.LedgerTransferID); id != "" {
		transfer.LedgerTransferID = &id
	}
	transfer.NextAttemptAt = nil
	transfer.LastError = nil
	transfer.UpdatedAt = now

	updated, err := s.store.Repositories().Transfers.UpdateFromStatus(ctx, transfer, previous)
	if err != nil {
		return err
	}
	if !updated {
		s.logTransferMovedOn(transfer, previous)
		return nil
	}

	s.recordTransferEvent(ctx, transfer, "transfer_submitted", now, nil, nil)
	return nil
}

func (s *EscrowService) recordDispatchFailure(ctx context.Context, transfer *entity.Transfer, now time.Time, dispatchErr error) error {
	// A ledger without credentials is an operator problem; the transfer
	// stays due and keeps its attempts.
	if errors.Is(dispatchErr, ledger.ErrNotConfigured) {
		s.logger.WithField("transfer_id", transfer.ID).WithError(dispatchErr).Warn("transfer_dispatch_skipped")
		return dispatchErr
	}

	previous := transfer.Status
	transfer.Attempts++
	trimmed := truncate(dispatchErr.Error(), 1024)
	transfer.LastError = &trimmed

	maxAttempts := s.transfersCfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	failed := errors.Is(dispatchErr, ledger.ErrTransferRejected) || transfer.Attempts >= maxAttempts
	if failed {
		transfer.Status = entity.TransferStatusFailed
		transfer.NextAttemptAt = nil
	} else {
		retryInterval := s.transfersCfg.RetryInterval
		if retryInterval <= 0 {
			retryInterval = 5 * time.Minute
		}
		next := now.Add(retryInterval)
		transfer.NextAttemptAt = &next
	}
	transfer.UpdatedAt = now

	updated, err := s.store.Repositories().Transfers.UpdateFromStatus(ctx, transfer, previous)
	if err != nil {
		return err
	}
	if !updated {
		s.logTransferMovedOn(transfer, previous)
		return dispatchErr
	}

	if failed {
		s.flagFailedTransfer(ctx, transfer, now, nil)
	} else {
		s.recordTransferEvent(ctx, transfer, "transfer_dispatch_failed", now, nil, nil)
	}

	return dispatchErr
}

// logTransferMovedOn notes a write that lost to a concurrent receipt or job.
func (s *EscrowService) logTransferMovedOn(transfer *entity.Transfer, from entity.TransferStatus) {
	s.logger.WithFields(logrus.Fields{
		"transfer_id": transfer.ID,
		"from_status": from.String(),
	}).Info("transfer_moved_on")
}

// flagFailedTransfer leaves the payment and fee counters as they are and
// makes the lost transfer visible to operators.
func (s *EscrowService) flagFailedTransfer(ctx context.Context, transfer *entity.Transfer, now time.Time, ledgerEventID *string) {
	fields := logrus.Fields{
		"transfer_id": transfer.ID,
		"kind":        transfer.Kind.String(),
		"receiver":    transfer.Receiver,
		"amount":      transfer.Amount.String(),
		"attempts":    transfer.Attempts,
	}
	if transfer.PaymentID != nil {
		fields["payment_id"] = transfer.PaymentID.String()
	}
	if transfer.LastError != nil {
		fields["error"] = *transfer.LastError
	}
	s.logger.WithFields(fields).Error("transfer_failed")

	s.recordTransferEvent(ctx, transfer, "transfer_failed", now, transfer.LastError, ledgerEventID)
}

func (s *EscrowService) recordTransferEvent(ctx context.Context, transfer *entity.Transfer, eventType string, now time.Time, reason *string, ledgerEventID *string) {
	payload := map[string]string{
		"transfer_id": transfer.ID,
		"kind":        transfer.Kind.String(),
		"receiver":    transfer.Receiver,
		"amount":      transfer.Amount.String(),
		"status":      transfer.Status.String(),
	}
	if transfer.LedgerTransferID != nil {
		payload["ledger_transfer_id"] = *transfer.LedgerTransferID
	}
	if reason != nil {
		payload["error"] = *reason
	}
	if ledgerEventID != nil {
		payload["ledger_event_id"] = *ledgerEventID
	}

	var payloadJSON *string
	if raw, err := json.Marshal(payload); err == nil {
		encoded := string(raw)
		payloadJSON = &encoded
	}

	_ = s.store.Repositories().Events.Create(ctx, &entity.PaymentEvent{
		PaymentID:   copyDecimal(transfer.PaymentID),
		EventType:   eventType,
		Caller:      "ledger",
		PayloadJSON: payloadJSON,
		CreatedAt:   now,
	})
}

func (s *EscrowService) batchSize() int32 {
	if s.transfersCfg.JobBatchSize <= 0 {
		return defaultBatchSize
	}
	return s.transfersCfg.JobBatchSize
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
