package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id decimal.Decimal) (*entity.Payment, error)
	List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error)
}

type orderRepository interface {
	Bind(ctx context.Context, orderID, paymentID decimal.Decimal) error
	FindPaymentID(ctx context.Context, orderID decimal.Decimal) (*decimal.Decimal, error)
}

type mediatorRepository interface {
	Create(ctx context.Context, m *entity.Mediator) error
	Get(ctx context.Context, forUpdate bool) (*entity.Mediator, error)
	Update(ctx context.Context, m *entity.Mediator) error
}

type transferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	UpdateFromStatus(ctx context.Context, transfer *entity.Transfer, from entity.TransferStatus) (bool, error)
	FindByReceiptHash(ctx context.Context, hash string) (*entity.Transfer, error)
	ListDueDispatch(ctx context.Context, now time.Time, limit int32) ([]*entity.Transfer, error)
	ListForReconcile(ctx context.Context, before time.Time, limit int32) ([]*entity.Transfer, error)
	ListByPayment(ctx context.Context, payment *entity.Payment) ([]*entity.Transfer, error)
}

type paymentEventRepository interface {
	Create(ctx context.Context, event *entity.PaymentEvent) error
	ListByPayment(ctx context.Context, payment *entity.Payment) ([]*entity.PaymentEvent, error)
}

type transferReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.TransferReceipt) error
}

// Repositories is one consistent view of storage: the connection pool or a
// single transaction.
type Repositories struct {
	Payments  paymentRepository
	Orders    orderRepository
	Mediator  mediatorRepository
	Transfers transferRepository
	Events    paymentEventRepository
	Receipts  transferReceiptRepository
}

type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

type sqlStore struct {
	store *repository.Store
}

func NewSQLStore(store *repository.Store) Store {
	return &sqlStore{store: store}
}

func (s *sqlStore) Repositories() Repositories {
	return fromRepository(s.store.Repositories())
}

func (s *sqlStore) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		return fn(fromRepository(repos))
	})
}

func fromRepository(repos *repository.Repositories) Repositories {
	return Repositories{
		Payments:  repos.Payments,
		Orders:    repos.Orders,
		Mediator:  repos.Mediator,
		Transfers: repos.Transfers,
		Events:    repos.Events,
		Receipts:  repos.Receipts,
	}
}
