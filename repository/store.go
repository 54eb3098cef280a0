package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrNestedTx is returned when InTx is called on a store already bound to a transaction.
var ErrNestedTx = errors.New("store is already bound to a transaction")

// Store groups the repositories over one handle. A store returned by InTx
// routes every repository call through the same transaction.
type Store struct {
	db   *sql.DB
	inTx bool

	Users    *UserRepository
	Wallets  *WalletRepository
	Orders   *OrderRepository
	Statuses *StatusRepository
	Notes    *NoteRepository
	Payments *PaymentRepository
	Payouts  *PayoutRepository
}

// NewStore builds a Store over an open database.
func NewStore(db *sql.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(h DBTX) *Store {
	return &Store{
		Users:    &UserRepository{db: h},
		Wallets:  &WalletRepository{db: h},
		Orders:   &OrderRepository{db: h},
		Statuses: &StatusRepository{db: h},
		Notes:    &NoteRepository{db: h},
		Payments: &PaymentRepository{db: h},
		Payouts:  &PayoutRepository{db: h},
	}
}

// InTx runs fn against a transaction-bound store. The transaction commits when fn
// returns nil and rolls back otherwise. fn must not use the outer store.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx || s.db == nil {
		return ErrNestedTx
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := newStore(tx)
	txStore.inTx = true
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
