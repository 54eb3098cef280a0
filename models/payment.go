package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentTagWallet = "wallet"
	PaymentTagCash   = "cash"
)

// PaymentMethod is a configured payment system.
type PaymentMethod struct {
	ID     int64  `db:"id" json:"id"`
	Tag    string `db:"tag" json:"tag"`
	Active bool   `db:"active" json:"active"`
}

// PartnerType selects who receives a payout.
type PartnerType string

const (
	PartnerSeller      PartnerType = "seller"
	PartnerDeliveryman PartnerType = "deliveryman"
)

// ParsePartnerType validates a partner type received from outside the core.
func ParsePartnerType(s string) (PartnerType, error) {
	switch PartnerType(s) {
	case PartnerSeller, PartnerDeliveryman:
		return PartnerType(s), nil
	}
	return "", fmt.Errorf("unknown partner type %q", s)
}

// TransactionStatusPaid is the only status payout transactions take.
const TransactionStatusPaid = "paid"

// PaymentToPartner records one payout event for one order.
type PaymentToPartner struct {
	ID        int64       `db:"id" json:"id"`
	UserID    int64       `db:"user_id" json:"user_id"`
	OrderID   int64       `db:"order_id" json:"order_id"`
	Type      PartnerType `db:"type" json:"type"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Transaction is the ledger entry attached to a PaymentToPartner.
type Transaction struct {
	ID                int64           `db:"id" json:"id"`
	PayableID         int64           `db:"payable_id" json:"payable_id"`
	Price             decimal.Decimal `db:"price" json:"price"`
	UserID            int64           `db:"user_id" json:"user_id"`
	PaymentSysID      int64           `db:"payment_sys_id" json:"payment_sys_id"`
	Note              string          `db:"note" json:"note"`
	PerformTime       time.Time       `db:"perform_time" json:"perform_time"`
	Status            string          `db:"status" json:"status"`
	StatusDescription string          `db:"status_description" json:"status_description"`
}
