package models

import "time"

// StatusDefinition is a configurable row of the order status vocabulary.
type StatusDefinition struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
	Sort   int    `db:"sort" json:"sort"`
}

// OrderStatusNote is an append-only audit record written alongside a status change.
type OrderStatusNote struct {
	ID        int64       `db:"id" json:"id"`
	OrderID   int64       `db:"order_id" json:"order_id"`
	Status    OrderStatus `db:"status" json:"status"`
	Note      string      `db:"note" json:"note"`
	UserID    *int64      `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
