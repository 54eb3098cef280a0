// Package wallet moves value between user wallets and keeps their history.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

// ErrWalletMissing is returned when the user has no wallet to move value through.
var ErrWalletMissing = errors.New("user has no wallet")

// Movement describes one wallet entry.
type Movement struct {
	Type      models.WalletHistoryType
	Amount    decimal.Decimal
	Note      string
	Status    string
	CreatedBy *int64
}

// Ledger records wallet movements.
type Ledger struct {
	newID func() uuid.UUID
}

// NewLedger creates a Ledger that ids history rows with random UUIDs.
func NewLedger() *Ledger {
	return &Ledger{newID: uuid.New}
}

// RecordMovement writes a history entry and applies it to the user's balance.
// Run it on a transaction-bound store so both writes land together.
// Balances are allowed to go negative.
func (l *Ledger) RecordMovement(ctx context.Context, s *repository.Store, user *models.User, m Movement) error {
	if user == nil {
		return ErrWalletMissing
	}
	w := user.Wallet
	if w == nil {
		var err error
		if w, err = s.Wallets.GetByUserID(ctx, user.ID); err != nil {
			return fmt.Errorf("load wallet of user %d: %w", user.ID, err)
		}
		if w == nil {
			return fmt.Errorf("user %d: %w", user.ID, ErrWalletMissing)
		}
	}

	delta := m.Amount
	switch m.Type {
	case models.WalletTopup:
	case models.WalletWithdraw:
		delta = delta.Neg()
	default:
		return fmt.Errorf("unknown wallet movement %q", m.Type)
	}
	status := m.Status
	if status == "" {
		status = models.WalletHistoryStatusPaid
	}

	if _, err := s.Wallets.AddHistory(ctx, &models.WalletHistory{
		UUID:      l.newID().String(),
		WalletID:  w.ID,
		Type:      m.Type,
		Amount:    m.Amount,
		Note:      m.Note,
		Status:    status,
		CreatedBy: m.CreatedBy,
	}); err != nil {
		return fmt.Errorf("add wallet history: %w", err)
	}
	balance, err := s.Wallets.AdjustBalance(ctx, w.ID, delta)
	if err != nil {
		return fmt.Errorf("adjust wallet %d: %w", w.ID, err)
	}
	w.Balance = balance
	return nil
}
