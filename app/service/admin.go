package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/factory"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
)

type setFeeRateRequest interface {
	GetFeeRate() string
}

// Initialize creates the mediator singleton. It can only succeed once.
func (s *EscrowService) Initialize(ctx context.Context, owner string, feeRate string) (*entity.Mediator, error) {
	rate, err := parseAmount("fee_rate", feeRate)
	if err != nil {
		return nil, err
	}
	m, err := escrow.NewMediator(owner, rate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.WithinTx(ctx, func(repos Repositories) error {
		existing, err := repos.Mediator.Get(ctx, true)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrMediatorAlreadyInitialized
		}

		now := s.now().UTC()
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := repos.Mediator.Create(ctx, m); err != nil {
			if errors.Is(err, repository.ErrMediatorAlreadyExists) {
				return ErrMediatorAlreadyInitialized
			}
			return err
		}

		raw, err := json.Marshal(map[string]string{
			"owner":    m.Owner,
			"fee_rate": m.FeeRate.String(),
		})
		if err != nil {
			return err
		}
		payload := string(raw)
		return repos.Events.Create(ctx, &entity.PaymentEvent{
			EventType:   "mediator_initialized",
			Caller:      m.Owner,
			PayloadJSON: &payload,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	factory.LoggerFromContext(s.logger, ctx).WithFields(logrus.Fields{
		"event":    "mediator_initialized",
		"owner":    m.Owner,
		"fee_rate": m.FeeRate.String(),
	}).Info("escrow_audit")

	return m, nil
}

func (s *EscrowService) Withdraw(ctx context.Context, call escrow.Call) (*Result, error) {
	return s.mutate(ctx, call, func(_ Repositories, m *entity.Mediator) (*escrow.Outcome, error) {
		return s.engine.Withdraw(m, call)
	})
}

// SetFeeRate authorizes the owner before parsing the rate, so a foreign
// caller gets Unauthorized whatever rate it sends.
func (s *EscrowService) SetFeeRate(ctx context.Context, call escrow.Call, req setFeeRateRequest) (*Result, error) {
	return s.mutate(ctx, call, func(_ Repositories, m *entity.Mediator) (*escrow.Outcome, error) {
		if err := s.engine.AuthorizeOwner(m, call); err != nil {
			return nil, err
		}
		rate, err := parseAmount("fee_rate", req.GetFeeRate())
		if err != nil {
			return nil, err
		}
		return s.engine.SetFeeRate(m, call, rate)
	})
}
