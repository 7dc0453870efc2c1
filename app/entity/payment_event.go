package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentEvent struct {
	ID uint64

	// PaymentID is nil for mediator-level events (withdraw, fee rate).
	PaymentID *decimal.Decimal

	EventType string
	Caller    string

	OldStatus *PaymentStatus
	NewStatus PaymentStatus

	PayloadJSON *string

	CreatedAt time.Time
}
