package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
)

type getPaymentRequest interface {
	GetId() string
}

type getPaymentByOrderRequest interface {
	GetOrderId() string
}

type listPaymentsRequest interface {
	GetShop() string
	GetUser() string
	GetStatus() string
	GetLimit() int32
	GetOffset() int32
}

func (s *EscrowService) GetPayment(ctx context.Context, req getPaymentRequest) (*entity.Payment, error) {
	id, err := parseAmount("id", req.GetId())
	if err != nil {
		return nil, err
	}
	payment, err := s.store.Repositories().Payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

func (s *EscrowService) GetPaymentByOrder(ctx context.Context, req getPaymentByOrderRequest) (*entity.Payment, error) {
	orderID, err := parseAmount("order_id", req.GetOrderId())
	if err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	paymentID, err := repos.Orders.FindPaymentID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if paymentID == nil {
		return nil, ErrNotFound
	}

	payment, err := repos.Payments.FindByID(ctx, *paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

func (s *EscrowService) ListPayments(ctx context.Context, req listPaymentsRequest) ([]*entity.Payment, error) {
	filter := repository.PaymentFilter{
		Shop:   strings.TrimSpace(req.GetShop()),
		User:   strings.TrimSpace(req.GetUser()),
		Limit:  req.GetLimit(),
		Offset: req.GetOffset(),
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if raw := strings.TrimSpace(req.GetStatus()); raw != "" {
		status, ok := entity.ParsePaymentStatus(strings.ToUpper(raw))
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidParameter, raw)
		}
		filter.HasStatus = true
		filter.Status = status
	}

	return s.store.Repositories().Payments.List(ctx, filter)
}

// GetMediator returns the mediator summary.
func (s *EscrowService) GetMediator(ctx context.Context) (*entity.Mediator, error) {
	m, err := s.store.Repositories().Mediator.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMediatorNotInitialized
	}
	return m, nil
}

// ListPaymentTransfers returns the value transfers a payment produced, oldest
// first.
func (s *EscrowService) ListPaymentTransfers(ctx context.Context, req getPaymentRequest) ([]*entity.Transfer, error) {
	payment, err := s.GetPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.store.Repositories().Transfers.ListByPayment(ctx, payment)
}

// ListPaymentEvents returns the audit trail of a payment, oldest first.
func (s *EscrowService) ListPaymentEvents(ctx context.Context, req getPaymentRequest) ([]*entity.PaymentEvent, error) {
	payment, err := s.GetPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.store.Repositories().Events.ListByPayment(ctx, payment)
}
