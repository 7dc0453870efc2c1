package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
)

type memState struct {
	mediator  *entity.Mediator
	payments  map[string]*entity.Payment
	orders    map[string]decimal.Decimal
	transfers map[string]*entity.Transfer
	events    []*entity.PaymentEvent
	receipts  []*entity.TransferReceipt
}

func (s *memState) clone() *memState {
	c := &memState{
		mediator:  s.mediator.Clone(),
		payments:  make(map[string]*entity.Payment, len(s.payments)),
		orders:    make(map[string]decimal.Decimal, len(s.orders)),
		transfers: make(map[string]*entity.Transfer, len(s.transfers)),
		events:    append([]*entity.PaymentEvent(nil), s.events...),
		receipts:  append([]*entity.TransferReceipt(nil), s.receipts...),
	}
	for k, v := range s.payments {
		c.payments[k] = v.Clone()
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.transfers {
		copyItem := *v
		c.transfers[k] = &copyItem
	}
	return c
}

// memStore keeps everything in maps. WithinTx works on a copy that replaces
// the live state only when fn succeeds.
type memStore struct {
	state   *memState
	failTx  error
	txCalls int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		payments:  map[string]*entity.Payment{},
		orders:    map[string]decimal.Decimal{},
		transfers: map[string]*entity.Transfer{},
	}}
}

func (s *memStore) Repositories() Repositories {
	return s.state.repositories()
}

func (s *memStore) WithinTx(_ context.Context, fn func(Repositories) error) error {
	s.txCalls++
	work := s.state.clone()
	if err := fn(work.repositories()); err != nil {
		return err
	}
	if s.failTx != nil {
		return s.failTx
	}
	s.state = work
	return nil
}

func (s *memState) repositories() Repositories {
	return Repositories{
		Payments:  &memPayments{s},
		Orders:    &memOrders{s},
		Mediator:  &memMediator{s},
		Transfers: &memTransfers{s},
		Events:    &memEvents{s},
		Receipts:  &memReceipts{s},
	}
}

type memPayments struct{ s *memState }

func (r *memPayments) Create(_ context.Context, payment *entity.Payment) error {
	key := payment.ID.String()
	if _, ok := r.s.payments[key]; ok {
		return repository.ErrPaymentAlreadyExists
	}
	r.s.payments[key] = payment.Clone()
	return nil
}

func (r *memPayments) Update(_ context.Context, payment *entity.Payment) error {
	key := payment.ID.String()
	if _, ok := r.s.payments[key]; !ok {
		return repository.ErrPaymentNotFound
	}
	r.s.payments[key] = payment.Clone()
	return nil
}

func (r *memPayments) FindByID(_ context.Context, id decimal.Decimal) (*entity.Payment, error) {
	item, ok := r.s.payments[id.String()]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

func (r *memPayments) List(_ context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	items := make([]*entity.Payment, 0)
	for _, item := range r.s.payments {
		if filter.Shop != "" && item.Shop != filter.Shop {
			continue
		}
		if filter.User != "" && item.User != filter.User {
			continue
		}
		if filter.HasStatus && item.Status != filter.Status {
			continue
		}
		items = append(items, item.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.GreaterThan(items[j].ID) })

	start := int(filter.Offset)
	if start > len(items) {
		return []*entity.Payment{}, nil
	}
	end := start + int(filter.Limit)
	if end > len(items) || filter.Limit <= 0 {
		end = len(items)
	}
	return items[start:end], nil
}

type memOrders struct{ s *memState }

func (r *memOrders) Bind(_ context.Context, orderID, paymentID decimal.Decimal) error {
	key := orderID.String()
	if _, ok := r.s.orders[key]; ok {
		return repository.ErrOrderAlreadyBound
	}
	r.s.orders[key] = paymentID
	return nil
}

func (r *memOrders) FindPaymentID(_ context.Context, orderID decimal.Decimal) (*decimal.Decimal, error) {
	id, ok := r.s.orders[orderID.String()]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

type memMediator struct{ s *memState }

func (r *memMediator) Create(_ context.Context, m *entity.Mediator) error {
	if r.s.mediator != nil {
		return repository.ErrMediatorAlreadyExists
	}
	r.s.mediator = m.Clone()
	return nil
}

func (r *memMediator) Get(context.Context, bool) (*entity.Mediator, error) {
	return r.s.mediator.Clone(), nil
}

func (r *memMediator) Update(_ context.Context, m *entity.Mediator) error {
	r.s.mediator = m.Clone()
	return nil
}

type memTransfers struct{ s *memState }

func (r *memTransfers) Create(_ context.Context, transfer *entity.Transfer) error {
	if _, ok := r.s.transfers[transfer.ID]; ok {
		return repository.ErrTransferAlreadyExists
	}
	copyItem := *transfer
	r.s.transfers[transfer.ID] = &copyItem
	return nil
}

func (r *memTransfers) UpdateFromStatus(_ context.Context, transfer *entity.Transfer, from entity.TransferStatus) (bool, error) {
	current, ok := r.s.transfers[transfer.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	copyItem := *transfer
	r.s.transfers[transfer.ID] = &copyItem
	return true, nil
}

func (r *memTransfers) FindByReceiptHash(_ context.Context, hash string) (*entity.Transfer, error) {
	for _, item := range r.s.transfers {
		if item.ReceiptHash == hash {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (r *memTransfers) ListDueDispatch(_ context.Context, now time.Time, limit int32) ([]*entity.Transfer, error) {
	return r.filter(limit, func(item *entity.Transfer) bool {
		return item.Status == entity.TransferStatusPending && item.NextAttemptAt != nil && !item.NextAttemptAt.After(now)
	}), nil
}

func (r *memTransfers) ListForReconcile(_ context.Context, before time.Time, limit int32) ([]*entity.Transfer, error) {
	return r.filter(limit, func(item *entity.Transfer) bool {
		return item.Status == entity.TransferStatusSubmitted && item.LedgerTransferID != nil && !item.UpdatedAt.After(before)
	}), nil
}

func (r *memTransfers) ListByPayment(_ context.Context, payment *entity.Payment) ([]*entity.Transfer, error) {
	return r.filter(0, func(item *entity.Transfer) bool {
		return item.PaymentID != nil && item.PaymentID.Equal(payment.ID)
	}), nil
}

func (r *memTransfers) filter(limit int32, keep func(*entity.Transfer) bool) []*entity.Transfer {
	items := make([]*entity.Transfer, 0)
	for _, item := range r.s.transfers {
		if keep(item) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}

type memEvents struct{ s *memState }

func (r *memEvents) Create(_ context.Context, event *entity.PaymentEvent) error {
	event.ID = uint64(len(r.s.events) + 1)
	copyItem := *event
	r.s.events = append(r.s.events, &copyItem)
	return nil
}

func (r *memEvents) ListByPayment(_ context.Context, payment *entity.Payment) ([]*entity.PaymentEvent, error) {
	items := make([]*entity.PaymentEvent, 0)
	for _, item := range r.s.events {
		if item.PaymentID != nil && item.PaymentID.Equal(payment.ID) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	return items, nil
}

type memReceipts struct{ s *memState }

func (r *memReceipts) Create(_ context.Context, receipt *entity.TransferReceipt) error {
	receipt.ID = uint64(len(r.s.receipts) + 1)
	copyItem := *receipt
	r.s.receipts = append(r.s.receipts, &copyItem)
	return nil
}

func (s *memStore) transfersOf(kind entity.TransferKind) []*entity.Transfer {
	items := make([]*entity.Transfer, 0)
	for _, item := range s.state.transfers {
		if item.Kind == kind {
			items = append(items, item)
		}
	}
	return items
}

func (s *memStore) eventTypes() []string {
	out := make([]string, 0, len(s.state.events))
	for _, e := range s.state.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeLedger struct {
	transferErr  error
	transferOut  *ledger.TransferOutput
	statusResult entity.TransferStatus
	statusErr    error
	receipt      *ledger.Receipt
	receiptErr   error

	submitted []*ledger.TransferInput
}

func (l *fakeLedger) Transfer(_ context.Context, input *ledger.TransferInput) (*ledger.TransferOutput, error) {
	l.submitted = append(l.submitted, input)
	if l.transferErr != nil {
		return nil, l.transferErr
	}
	if l.transferOut != nil {
		return l.transferOut, nil
	}
	return &ledger.TransferOutput{LedgerTransferID: "ltx_" + input.IdempotencyKey, Status: entity.TransferStatusSubmitted}, nil
}

func (l *fakeLedger) GetTransferStatus(context.Context, string) (entity.TransferStatus, error) {
	return l.statusResult, l.statusErr
}

func (l *fakeLedger) VerifyAndParseReceipt(context.Context, []byte, string) (*ledger.Receipt, error) {
	if l.receiptErr != nil {
		return nil, l.receiptErr
	}
	return l.receipt, nil
}

var errStoreDown = errors.New("store down")
