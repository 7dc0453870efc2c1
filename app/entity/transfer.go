package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferKind int32

const (
	TransferKindUnspecified   TransferKind = 0
	TransferKindStorageRefund TransferKind = 1
	TransferKindPayout        TransferKind = 2
	TransferKindFeeWithdrawal TransferKind = 3
)

func (k TransferKind) String() string {
	switch k {
	case TransferKindStorageRefund:
		return "storage_refund"
	case TransferKindPayout:
		return "payout"
	case TransferKindFeeWithdrawal:
		return "fee_withdrawal"
	default:
		return "unspecified"
	}
}

type TransferStatus int32

const (
	TransferStatusUnspecified TransferStatus = 0
	TransferStatusPending     TransferStatus = 1
	TransferStatusSubmitted   TransferStatus = 5
	TransferStatusSettled     TransferStatus = 10
	TransferStatusFailed      TransferStatus = 20
)

func (s TransferStatus) String() string {
	switch s {
	case TransferStatusPending:
		return "pending"
	case TransferStatusSubmitted:
		return "submitted"
	case TransferStatusSettled:
		return "settled"
	case TransferStatusFailed:
		return "failed"
	default:
		return "unspecified"
	}
}

func (s TransferStatus) Terminal() bool {
	return s == TransferStatusSettled || s == TransferStatusFailed
}

// Transfer is an outbound native value transfer requested by a committed
// lifecycle call and executed later by the dispatcher.
type Transfer struct {
	ID string

	PaymentID *decimal.Decimal

	Kind     TransferKind
	Receiver string
	Amount   decimal.Decimal

	Status   TransferStatus
	Attempts int32

	NextAttemptAt    *time.Time
	LedgerTransferID *string
	ReceiptHash      string
	LastError        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
