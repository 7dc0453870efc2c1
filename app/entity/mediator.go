package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeRateScale is the denominator of the fixed-point fee rate.
const FeeRateScale int64 = 100000

type Mediator struct {
	Owner string

	LastPaymentID decimal.Decimal
	FeeRate       decimal.Decimal

	FeeAccruedTotal   decimal.Decimal
	FeeWithdrawnTotal decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingFees is the fee revenue accrued but not yet withdrawn.
func (m *Mediator) PendingFees() decimal.Decimal {
	return m.FeeAccruedTotal.Sub(m.FeeWithdrawnTotal)
}

func (m *Mediator) Clone() *Mediator {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
