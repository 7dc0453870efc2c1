package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
)

func submittedPayout(t *testing.T) (*EscrowService, *memStore, *fakeLedger, *entity.Transfer) {
	t.Helper()
	svc, store, ledgerClient, clock := newEscrowServiceForTest(t)
	claimPayment(t, svc, "1000")
	clock.Advance(time.Second)
	if err := svc.RunDispatchTransfersBatch(context.Background()); err != nil {
		t.Fatalf("dispatch batch failed: %v", err)
	}
	return svc, store, ledgerClient, onlyTransfer(t, store, entity.TransferKindPayout)
}

func receiptRequest(hash string) *types.HandleTransferReceiptRequest {
	return &types.HandleTransferReceiptRequest{
		RequestId:   "rcpt-1",
		ReceiptHash: hash,
		Signature:   "t=1,v1=abc",
		Payload:     `{"id":"evt_1"}`,
	}
}

func TestHandleTransferReceiptSettles(t *testing.T) {
	svc, store, ledgerClient, payout := submittedPayout(t)
	ledgerClient.receipt = &ledger.Receipt{
		EventType:        "transfer.settled",
		LedgerTransferID: *payout.LedgerTransferID,
		IdempotencyKey:   payout.ID,
		Status:           entity.TransferStatusSettled,
	}

	updated, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash))
	if err != nil {
		t.Fatalf("handle receipt failed: %v", err)
	}
	if updated.Status != entity.TransferStatusSettled {
		t.Fatalf("expected settled, got %s", updated.Status)
	}
	if store.state.transfers[payout.ID].Status != entity.TransferStatusSettled {
		t.Fatal("expected stored transfer settled")
	}
	if len(store.state.receipts) != 1 || store.state.receipts[0].Status != entity.TransferReceiptProcessed {
		t.Fatalf("expected processed receipt, got %+v", store.state.receipts)
	}
}

func TestHandleTransferReceiptFailureFlagsTransfer(t *testing.T) {
	svc, store, ledgerClient, payout := submittedPayout(t)
	ledgerClient.receipt = &ledger.Receipt{
		EventType:      "transfer.failed",
		IdempotencyKey: payout.ID,
		Status:         entity.TransferStatusFailed,
		FailureReason:  "receiver account closed",
	}

	updated, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash))
	if err != nil {
		t.Fatalf("handle receipt failed: %v", err)
	}
	if updated.Status != entity.TransferStatusFailed || updated.LastError == nil || *updated.LastError != "receiver account closed" {
		t.Fatalf("expected failed transfer with reason, got %+v", updated)
	}
	if store.state.payments["1"].Status != entity.PaymentStatusClaimed {
		t.Fatal("payment must stay CLAIMED after a failed payout")
	}
	events := store.eventTypes()
	if events[len(events)-1] != "transfer_failed" {
		t.Fatalf("expected transfer_failed event, got %v", events)
	}
}

func TestHandleTransferReceiptInvalidSignature(t *testing.T) {
	svc, store, ledgerClient, payout := submittedPayout(t)
	ledgerClient.receiptErr = ledger.ErrInvalidSignature

	_, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash))
	if !errors.Is(err, ErrReceiptRejected) {
		t.Fatalf("expected ErrReceiptRejected, got %v", err)
	}
	if len(store.state.receipts) != 1 || store.state.receipts[0].Status != entity.TransferReceiptRejected {
		t.Fatalf("expected rejected receipt stored, got %+v", store.state.receipts)
	}
	if store.state.transfers[payout.ID].Status != entity.TransferStatusSubmitted {
		t.Fatal("rejected receipt must not change the transfer")
	}
}

func TestHandleTransferReceiptUnknownHashOrKey(t *testing.T) {
	svc, _, ledgerClient, payout := submittedPayout(t)
	ledgerClient.receipt = &ledger.Receipt{Status: entity.TransferStatusSettled, IdempotencyKey: payout.ID}

	if _, err := svc.HandleTransferReceipt(context.Background(), receiptRequest("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ledgerClient.receipt = &ledger.Receipt{Status: entity.TransferStatusSettled, IdempotencyKey: "other"}
	if _, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash)); !errors.Is(err, ErrReceiptRejected) {
		t.Fatalf("expected ErrReceiptRejected on key mismatch, got %v", err)
	}
}

func TestHandleTransferReceiptIgnoresTerminalTransfer(t *testing.T) {
	svc, store, ledgerClient, payout := submittedPayout(t)
	ledgerClient.receipt = &ledger.Receipt{Status: entity.TransferStatusSettled, IdempotencyKey: payout.ID}
	if _, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash)); err != nil {
		t.Fatalf("handle receipt failed: %v", err)
	}

	ledgerClient.receipt = &ledger.Receipt{Status: entity.TransferStatusFailed, IdempotencyKey: payout.ID}
	updated, err := svc.HandleTransferReceipt(context.Background(), receiptRequest(payout.ReceiptHash))
	if err != nil {
		t.Fatalf("replayed receipt failed: %v", err)
	}
	if updated.Status != entity.TransferStatusSettled {
		t.Fatalf("settled transfer must stay settled, got %s", updated.Status)
	}
	if len(store.state.receipts) != 2 {
		t.Fatalf("expected both receipts stored, got %d", len(store.state.receipts))
	}
}
