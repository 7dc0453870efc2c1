package escrow

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

type RequestArgs struct {
	OrderID *decimal.Decimal
	User    string
	Message string
	Fee     decimal.Decimal
}

var one = decimal.NewFromInt(1)

// Request opens a new payment with the caller as shop. orderTaken reports
// whether args.OrderID is already bound in the order index.
func (e *Engine) Request(m *entity.Mediator, call Call, args RequestArgs, orderTaken bool) (*Outcome, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}
	user := strings.TrimSpace(args.User)
	if user == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidParameter)
	}
	if !entity.IsUint128(args.Fee) {
		return nil, fmt.Errorf("%w: fee must be an unsigned 128-bit integer", ErrInvalidParameter)
	}
	if args.OrderID != nil && !entity.IsUint128(*args.OrderID) {
		return nil, fmt.Errorf("%w: order id must be an unsigned 128-bit integer", ErrInvalidParameter)
	}
	if !call.Attached.IsPositive() {
		return nil, fmt.Errorf("%w: a deposit is required to cover storage", ErrInsufficientFunds)
	}
	if args.OrderID != nil && orderTaken {
		return nil, fmt.Errorf("%w: order_id %s", ErrDuplicateOrder, args.OrderID.String())
	}

	nextID := m.LastPaymentID.Add(one)
	if !entity.IsUint128(nextID) {
		return nil, fmt.Errorf("%w: payment id space exhausted", ErrInvalidState)
	}

	payment := &entity.Payment{
		ID:      nextID,
		Shop:    call.Caller,
		User:    user,
		Message: args.Message,
		Fee:     args.Fee,
		Status:  entity.PaymentStatusRequesting,
	}
	if args.OrderID != nil {
		orderID := *args.OrderID
		payment.OrderID = &orderID
	}

	cost, err := e.meter.StorageCost(payment)
	if err != nil {
		return nil, err
	}
	if call.Attached.LessThan(cost) {
		return nil, fmt.Errorf("%w: must attach %s to cover storage", ErrInsufficientFunds, cost.String())
	}

	m.LastPaymentID = nextID

	var transfers []Transfer
	if refund := call.Attached.Sub(cost); refund.IsPositive() {
		transfers = append(transfers, Transfer{
			Kind:      entity.TransferKindStorageRefund,
			Receiver:  call.Caller,
			Amount:    refund,
			PaymentID: &payment.ID,
		})
	}

	fields := map[string]string{
		"payment_id":   payment.ID.String(),
		"user":         payment.User,
		"fee":          payment.Fee.String(),
		"message":      payment.Message,
		"storage_cost": cost.String(),
	}
	if payment.OrderID != nil {
		fields["order_id"] = payment.OrderID.String()
	}

	return &Outcome{
		Payment:         payment,
		Created:         true,
		MediatorChanged: true,
		Transfers:       transfers,
		Event: Event{
			Type:      "payment_requested",
			NewStatus: entity.PaymentStatusRequesting,
			Fields:    fields,
		},
	}, nil
}

// Pay moves a REQUESTING payment to PAID. The whole attached value stays in
// custody; nothing above the fee is returned.
func (e *Engine) Pay(call Call, current *entity.Payment) (*Outcome, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Status != entity.PaymentStatusRequesting {
		return nil, fmt.Errorf("%w: payment is %s, expected %s", ErrInvalidState, current.Status, entity.PaymentStatusRequesting)
	}
	if call.Caller != current.User {
		return nil, fmt.Errorf("%w: only the paying user may pay", ErrAccessDenied)
	}
	if call.Attached.LessThan(current.Fee) {
		return nil, fmt.Errorf("%w: required fee deposit of at least %s", ErrInsufficientFunds, current.Fee.String())
	}

	return advance(current, entity.PaymentStatusPaid, "payment_paid", map[string]string{
		"attached": call.Attached.String(),
	}), nil
}

// Confirm moves a PAID payment to CONFIRMED on behalf of the user, or of the
// owner when the policy allows it.
func (e *Engine) Confirm(m *entity.Mediator, call Call, current *entity.Payment) (*Outcome, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Status != entity.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: payment is %s, expected %s", ErrInvalidState, current.Status, entity.PaymentStatusPaid)
	}
	ownerOverride := e.policy.OwnerMayConfirm && call.Caller == m.Owner
	if call.Caller != current.User && !ownerOverride {
		return nil, fmt.Errorf("%w: only the paying user may confirm", ErrAccessDenied)
	}
	if err := e.requireAuthDeposit(call); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if call.Caller != current.User {
		fields["confirmed_by"] = "owner"
	}
	return advance(current, entity.PaymentStatusConfirmed, "payment_confirmed", fields), nil
}

// Claim releases a CONFIRMED payment to the shop, keeping the mediator fee at
// the rate in force now. The payout is only requested here; if the host later
// fails to deliver it the payment stays CLAIMED.
func (e *Engine) Claim(m *entity.Mediator, call Call, current *entity.Payment) (*Outcome, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Status != entity.PaymentStatusConfirmed {
		return nil, fmt.Errorf("%w: payment is %s, expected %s", ErrInvalidState, current.Status, entity.PaymentStatusConfirmed)
	}
	if call.Caller != current.Shop {
		return nil, fmt.Errorf("%w: only the shop may claim", ErrAccessDenied)
	}
	if err := e.requireAuthDeposit(call); err != nil {
		return nil, err
	}

	feeAmount, payout := SplitFee(current.Fee, m.FeeRate)
	m.FeeAccruedTotal = m.FeeAccruedTotal.Add(feeAmount)

	out := advance(current, entity.PaymentStatusClaimed, "payment_claimed", map[string]string{
		"fee_amount": feeAmount.String(),
		"payout":     payout.String(),
		"fee_rate":   m.FeeRate.String(),
	})
	out.MediatorChanged = true
	if payout.IsPositive() {
		out.Transfers = []Transfer{{
			Kind:      entity.TransferKindPayout,
			Receiver:  current.Shop,
			Amount:    payout,
			PaymentID: &out.Payment.ID,
		}}
	}
	return out, nil
}

func advance(current *entity.Payment, next entity.PaymentStatus, eventType string, extra map[string]string) *Outcome {
	payment := current.Clone()
	payment.Status = next

	fields := map[string]string{"payment_id": payment.ID.String()}
	if payment.OrderID != nil {
		fields["order_id"] = payment.OrderID.String()
	}
	for k, v := range extra {
		fields[k] = v
	}

	return &Outcome{
		Payment: payment,
		Event: Event{
			Type:      eventType,
			OldStatus: current.Status,
			NewStatus: next,
			Fields:    fields,
		},
	}
}
