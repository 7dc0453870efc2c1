package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/factory"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
	"github.com/vibast-solutions/ms-go-escrow/config"
)

const (
	defaultListLimit = int32(100)
	defaultBatchSize = int32(100)
)

type requestPaymentRequest interface {
	GetOrderId() string
	GetUser() string
	GetMessage() string
	GetFee() string
}

type paymentActionRequest interface {
	GetId() string
}

// Result is what a committed mutating call produced.
type Result struct {
	Payment   *entity.Payment
	Mediator  *entity.Mediator
	Transfers []*entity.Transfer
	Event     escrow.Event
}

// EscrowService runs engine operations against storage. Mutating calls are
// serialized by an in-process lock and a transaction that locks the mediator
// row, and commit fully or not at all.
type EscrowService struct {
	store        Store
	engine       *escrow.Engine
	ledger       ledger.Client
	transfersCfg config.TransfersConfig
	logger       logrus.FieldLogger
	now          func() time.Time

	mu sync.Mutex
}

func NewEscrowService(
	store Store,
	engine *escrow.Engine,
	ledgerClient ledger.Client,
	transfersCfg config.TransfersConfig,
) *EscrowService {
	return &EscrowService{
		store:        store,
		engine:       engine,
		ledger:       ledgerClient,
		transfersCfg: transfersCfg,
		logger:       factory.NewModuleLogger("escrow-service"),
		now:          time.Now,
	}
}

func (s *EscrowService) RequestPayment(ctx context.Context, call escrow.Call, req requestPaymentRequest) (*Result, error) {
	fee, err := parseAmount("fee", req.GetFee())
	if err != nil {
		return nil, err
	}
	args := escrow.RequestArgs{
		User:    req.GetUser(),
		Message: req.GetMessage(),
		Fee:     fee,
	}
	if raw := req.GetOrderId(); raw != "" {
		orderID, err := parseAmount("order_id", raw)
		if err != nil {
			return nil, err
		}
		args.OrderID = &orderID
	}

	return s.mutate(ctx, call, func(repos Repositories, m *entity.Mediator) (*escrow.Outcome, error) {
		taken := false
		if args.OrderID != nil {
			bound, err := repos.Orders.FindPaymentID(ctx, *args.OrderID)
			if err != nil {
				return nil, err
			}
			taken = bound != nil
		}
		return s.engine.Request(m, call, args, taken)
	})
}

func (s *EscrowService) Pay(ctx context.Context, call escrow.Call, req paymentActionRequest) (*Result, error) {
	return s.mutatePayment(ctx, call, req, func(_ *entity.Mediator, current *entity.Payment) (*escrow.Outcome, error) {
		return s.engine.Pay(call, current)
	})
}

func (s *EscrowService) Confirm(ctx context.Context, call escrow.Call, req paymentActionRequest) (*Result, error) {
	return s.mutatePayment(ctx, call, req, func(m *entity.Mediator, current *entity.Payment) (*escrow.Outcome, error) {
		return s.engine.Confirm(m, call, current)
	})
}

func (s *EscrowService) Claim(ctx context.Context, call escrow.Call, req paymentActionRequest) (*Result, error) {
	return s.mutatePayment(ctx, call, req, func(m *entity.Mediator, current *entity.Payment) (*escrow.Outcome, error) {
		return s.engine.Claim(m, call, current)
	})
}

func (s *EscrowService) mutatePayment(
	ctx context.Context,
	call escrow.Call,
	req paymentActionRequest,
	op func(m *entity.Mediator, current *entity.Payment) (*escrow.Outcome, error),
) (*Result, error) {
	id, err := parseAmount("id", req.GetId())
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, call, func(repos Repositories, m *entity.Mediator) (*escrow.Outcome, error) {
		current, err := repos.Payments.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return op(m, current)
	})
}

type mutation func(repos Repositories, m *entity.Mediator) (*escrow.Outcome, error)

func (s *EscrowService) mutate(ctx context.Context, call escrow.Call, fn mutation) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *Result
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		m, err := repos.Mediator.Get(ctx, true)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMediatorNotInitialized
		}

		out, err := fn(repos, m)
		if err != nil {
			return err
		}

		result, err = s.persist(ctx, repos, call, m, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, call, result)
	return result, nil
}

func (s *EscrowService) persist(ctx context.Context, repos Repositories, call escrow.Call, m *entity.Mediator, out *escrow.Outcome) (*Result, error) {
	now := s.now().UTC()
	result := &Result{Payment: out.Payment, Mediator: m, Event: out.Event}

	if p := out.Payment; p != nil {
		p.UpdatedAt = now
		if out.Created {
			p.CreatedAt = now
			if err := repos.Payments.Create(ctx, p); err != nil {
				return nil, err
			}
			if p.OrderID != nil {
				if err := repos.Orders.Bind(ctx, *p.OrderID, p.ID); err != nil {
					if errors.Is(err, repository.ErrOrderAlreadyBound) {
						return nil, fmt.Errorf("%w: order_id %s", ErrDuplicateOrder, p.OrderID.String())
					}
					return nil, err
				}
			}
		} else if err := repos.Payments.Update(ctx, p); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	if out.MediatorChanged {
		m.UpdatedAt = now
		if err := repos.Mediator.Update(ctx, m); err != nil {
			return nil, err
		}
	}

	for _, effect := range out.Transfers {
		next := now
		transfer := &entity.Transfer{
			ID:            uuid.NewString(),
			PaymentID:     copyDecimal(effect.PaymentID),
			Kind:          effect.Kind,
			Receiver:      effect.Receiver,
			Amount:        effect.Amount,
			Status:        entity.TransferStatusPending,
			NextAttemptAt: &next,
			ReceiptHash:   uuid.NewString(),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.Transfers.Create(ctx, transfer); err != nil {
			return nil, err
		}
		result.Transfers = append(result.Transfers, transfer)
	}

	event := &entity.PaymentEvent{
		EventType: out.Event.Type,
		Caller:    call.Caller,
		NewStatus: out.Event.NewStatus,
		CreatedAt: now,
	}
	if out.Payment != nil {
		id := out.Payment.ID
		event.PaymentID = &id
	}
	if out.Event.OldStatus != entity.PaymentStatusUnspecified {
		old := out.Event.OldStatus
		event.OldStatus = &old
	}
	if len(out.Event.Fields) > 0 {
		payload, err := json.Marshal(out.Event.Fields)
		if err != nil {
			return nil, err
		}
		payloadJSON := string(payload)
		event.PayloadJSON = &payloadJSON
	}
	if err := repos.Events.Create(ctx, event); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *EscrowService) audit(ctx context.Context, call escrow.Call, result *Result) {
	fields := logrus.Fields{
		"event":    result.Event.Type,
		"caller":   call.Caller,
		"attached": call.Attached.String(),
	}
	for k, v := range result.Event.Fields {
		fields[k] = v
	}
	if p := result.Payment; p != nil {
		fields["payment_id"] = p.ID.String()
		fields["user"] = p.User
		fields["shop"] = p.Shop
		fields["fee"] = p.Fee.String()
		fields["message"] = p.Message
		fields["status"] = p.Status.String()
		if p.OrderID != nil {
			fields["order_id"] = p.OrderID.String()
		}
	}
	if len(result.Transfers) > 0 {
		fields["transfers"] = len(result.Transfers)
	}
	factory.LoggerFromContext(s.logger, ctx).WithFields(fields).Info("escrow_audit")
}

func copyDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	v, err := types.ParseUint128(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, field, err)
	}
	return v, nil
}
