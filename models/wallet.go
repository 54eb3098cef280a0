package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletHistoryType is the direction of a wallet movement.
type WalletHistoryType string

const (
	WalletTopup    WalletHistoryType = "topup"
	WalletWithdraw WalletHistoryType = "withdraw"
)

// WalletHistoryStatusPaid marks a settled movement.
const WalletHistoryStatusPaid = "paid"

// Wallet holds a user's balance.
type Wallet struct {
	ID      int64           `db:"id" json:"id"`
	UserID  int64           `db:"user_id" json:"user_id"`
	Balance decimal.Decimal `db:"balance" json:"balance"`
}

// WalletHistory is one movement on a wallet. Rows are never updated.
type WalletHistory struct {
	ID        int64             `db:"id" json:"id"`
	UUID      string            `db:"uuid" json:"uuid"`
	WalletID  int64             `db:"wallet_id" json:"wallet_id"`
	Type      WalletHistoryType `db:"type" json:"type"`
	Amount    decimal.Decimal   `db:"amount" json:"amount"`
	Note      string            `db:"note" json:"note"`
	Status    string            `db:"status" json:"status"`
	CreatedBy *int64            `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
