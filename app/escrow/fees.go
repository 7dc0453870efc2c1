package escrow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var feeRateScale = decimal.NewFromInt(entity.FeeRateScale)

// SplitFee divides fee into the mediator's share, floor(fee * rate / scale),
// and the payout to the shop. The two always sum to fee.
func SplitFee(fee, rate decimal.Decimal) (feeAmount, payout decimal.Decimal) {
	feeAmount, _ = fee.Mul(rate).QuoRem(feeRateScale, 0)
	return feeAmount, fee.Sub(feeAmount)
}

// Withdraw pays out every fee accrued since the last withdrawal to the owner.
// With nothing new accrued it succeeds and moves no value.
func (e *Engine) Withdraw(m *entity.Mediator, call Call) (*Outcome, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}
	if err := requireOwner(m, call); err != nil {
		return nil, err
	}
	if err := e.requireAuthDeposit(call); err != nil {
		return nil, err
	}
	if !m.FeeAccruedTotal.IsPositive() {
		return nil, fmt.Errorf("%w: no fee revenue accrued", ErrInvalidState)
	}

	amount := m.PendingFees()
	m.FeeWithdrawnTotal = m.FeeAccruedTotal

	out := &Outcome{
		MediatorChanged: true,
		Event: Event{
			Type: "fees_withdrawn",
			Fields: map[string]string{
				"amount":              amount.String(),
				"fee_accrued_total":   m.FeeAccruedTotal.String(),
				"fee_withdrawn_total": m.FeeWithdrawnTotal.String(),
			},
		},
	}
	if amount.IsPositive() {
		out.Transfers = []Transfer{{
			Kind:     entity.TransferKindFeeWithdrawal,
			Receiver: m.Owner,
			Amount:   amount,
		}}
	}
	return out, nil
}
