// Package ledger talks to the ledger that executes native value transfers on
// behalf of the mediator.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var (
	// ErrTransferRejected marks a transfer the ledger refused outright.
	// Retrying it will not help.
	ErrTransferRejected = errors.New("ledger rejected transfer")
	ErrInvalidSignature = errors.New("invalid ledger receipt signature")
	ErrNotConfigured    = errors.New("ledger client is not configured")
)

type TransferInput struct {
	// IdempotencyKey is the local transfer id. Resubmitting the same key
	// never moves value twice.
	IdempotencyKey string
	ReceiptHash    string
	Kind           entity.TransferKind
	Receiver       string
	Amount         decimal.Decimal
	PaymentID      *decimal.Decimal
}

type TransferOutput struct {
	LedgerTransferID string
	Status           entity.TransferStatus
}

type Receipt struct {
	// EventID is the ledger's notification id, kept on the audit event.
	EventID          *string
	EventType        string
	LedgerTransferID string
	IdempotencyKey   string
	Status           entity.TransferStatus
	FailureReason    string
}

type Client interface {
	Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error)
	GetTransferStatus(ctx context.Context, ledgerTransferID string) (entity.TransferStatus, error)
	VerifyAndParseReceipt(ctx context.Context, payload []byte, signature string) (*Receipt, error)
}
