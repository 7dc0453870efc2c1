package escrow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

// ValidateFeeRate accepts rates in (0, scale].
func ValidateFeeRate(rate decimal.Decimal) error {
	if !rate.IsInteger() || !rate.IsPositive() {
		return fmt.Errorf("%w: fee rate must be a positive integer", ErrInvalidParameter)
	}
	if rate.GreaterThan(feeRateScale) {
		return fmt.Errorf("%w: fee rate must not exceed %d", ErrInvalidParameter, entity.FeeRateScale)
	}
	return nil
}

// AuthorizeOwner checks that call is an owner call carrying the auth
// deposit. Owner operations run it before looking at their arguments.
func (e *Engine) AuthorizeOwner(m *entity.Mediator, call Call) error {
	if err := validateCall(call); err != nil {
		return err
	}
	if err := requireOwner(m, call); err != nil {
		return err
	}
	return e.requireAuthDeposit(call)
}

// SetFeeRate replaces the rate used by future claims.
func (e *Engine) SetFeeRate(m *entity.Mediator, call Call, rate decimal.Decimal) (*Outcome, error) {
	if err := e.AuthorizeOwner(m, call); err != nil {
		return nil, err
	}
	if err := ValidateFeeRate(rate); err != nil {
		return nil, err
	}

	old := m.FeeRate
	m.FeeRate = rate

	return &Outcome{
		MediatorChanged: true,
		Event: Event{
			Type: "fee_rate_changed",
			Fields: map[string]string{
				"old_fee_rate": old.String(),
				"fee_rate":     rate.String(),
			},
		},
	}, nil
}

// NewMediator builds the singleton state at deployment.
func NewMediator(owner string, rate decimal.Decimal) (*entity.Mediator, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidParameter)
	}
	if err := ValidateFeeRate(rate); err != nil {
		return nil, err
	}
	return &entity.Mediator{
		Owner:             owner,
		LastPaymentID:     decimal.Zero,
		FeeRate:           rate,
		FeeAccruedTotal:   decimal.Zero,
		FeeWithdrawnTotal: decimal.Zero,
	}, nil
}
