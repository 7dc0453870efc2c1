package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Repositories groups every repository bound to one DBTX, either the pool or
// an open transaction.
type Repositories struct {
	Payments  *PaymentRepository
	Orders    *OrderRepository
	Mediator  *MediatorRepository
	Transfers *TransferRepository
	Events    *PaymentEventRepository
	Receipts  *TransferReceiptRepository
}

func NewRepositories(db DBTX, dialect Dialect) *Repositories {
	return &Repositories{
		Payments:  NewPaymentRepository(db),
		Orders:    NewOrderRepository(db),
		Mediator:  NewMediatorRepository(db, dialect),
		Transfers: NewTransferRepository(db),
		Events:    NewPaymentEventRepository(db),
		Receipts:  NewTransferReceiptRepository(db),
	}
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	repos   *Repositories
}

func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, repos: NewRepositories(db, dialect)}
}

// Repositories returns repositories bound to the connection pool.
func (s *Store) Repositories() *Repositories {
	return s.repos
}

// WithinTx runs fn against repositories bound to a single transaction and
// commits only when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(*Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(NewRepositories(tx, s.dialect)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
