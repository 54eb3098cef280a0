package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusOnAWay    OrderStatus = "on_a_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
	OrderStatusPause     OrderStatus = "pause"
)

// OrderStatuses lists every status an order may hold.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusAccepted,
	OrderStatusReady,
	OrderStatusOnAWay,
	OrderStatusDelivered,
	OrderStatusCanceled,
	OrderStatusPause,
}

// Valid reports whether s is a member of the status enumeration.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// Order is a marketplace order. Sub-orders of a grouped checkout share ParentID.
// ShopID resolves the seller; DeliverymanID is set once a courier is assigned.
type Order struct {
	ID            int64           `db:"id" json:"id"`
	ParentID      *int64          `db:"parent_id" json:"parent_id,omitempty"`
	ShopID        *int64          `db:"shop_id" json:"shop_id,omitempty"`
	UserID        *int64          `db:"user_id" json:"user_id,omitempty"`
	DeliverymanID *int64          `db:"deliveryman_id" json:"deliveryman_id,omitempty"`
	Status        OrderStatus     `db:"status" json:"status"`
	SellerFee     decimal.Decimal `db:"seller_fee" json:"seller_fee"`
	DeliveryFee   decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// PayoutOrder is an order loaded together with the partners a payout can settle with.
// Seller and Deliveryman are nil when the order has no such partner.
type PayoutOrder struct {
	Order
	Seller      *User
	Deliveryman *User
}
