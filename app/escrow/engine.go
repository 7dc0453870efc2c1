package escrow

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

// Call carries what the host knows about an invocation: who made it and how
// much native value came with it.
type Call struct {
	Caller   string
	Attached decimal.Decimal
}

// StorageMeter prices the storage a new payment record occupies. It is the
// storage-rent capability of the host; the engine only consumes it.
type StorageMeter interface {
	StorageCost(payment *entity.Payment) (decimal.Decimal, error)
}

type Policy struct {
	// OwnerMayConfirm lets the mediator owner confirm on behalf of the user.
	OwnerMayConfirm bool
	// MinAuthDeposit is the value that must accompany confirm, claim and the
	// owner operations.
	MinAuthDeposit decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		OwnerMayConfirm: true,
		MinAuthDeposit:  decimal.NewFromInt(1),
	}
}

// Transfer is a pending value transfer produced by an operation.
type Transfer struct {
	Kind      entity.TransferKind
	Receiver  string
	Amount    decimal.Decimal
	PaymentID *decimal.Decimal
}

// Event is the audit record of a committed operation.
type Event struct {
	Type      string
	OldStatus entity.PaymentStatus
	NewStatus entity.PaymentStatus
	Fields    map[string]string
}

type Outcome struct {
	// Payment is the new state of the touched payment, nil for mediator-level
	// operations.
	Payment *entity.Payment
	// Created is set when Payment did not exist before the operation.
	Created bool
	// MediatorChanged is set when the Mediator passed in was mutated.
	MediatorChanged bool

	Transfers []Transfer
	Event     Event
}

type Engine struct {
	policy Policy
	meter  StorageMeter
}

func NewEngine(policy Policy, meter StorageMeter) *Engine {
	if !policy.MinAuthDeposit.IsPositive() {
		policy.MinAuthDeposit = decimal.NewFromInt(1)
	}
	return &Engine{policy: policy, meter: meter}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) requireAuthDeposit(call Call) error {
	if call.Attached.LessThan(e.policy.MinAuthDeposit) {
		return fmt.Errorf("%w: requires attached deposit of at least %s", ErrInsufficientFunds, e.policy.MinAuthDeposit.String())
	}
	return nil
}

func validateCall(call Call) error {
	if strings.TrimSpace(call.Caller) == "" {
		return fmt.Errorf("%w: caller is required", ErrInvalidParameter)
	}
	if !entity.IsUint128(call.Attached) {
		return fmt.Errorf("%w: attached value must be an unsigned 128-bit integer", ErrInvalidParameter)
	}
	return nil
}

func requireOwner(m *entity.Mediator, call Call) error {
	if call.Caller != m.Owner {
		return ErrUnauthorized
	}
	return nil
}
