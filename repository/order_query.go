package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"marketplaceOrders/models"
)

// ListOrdersParams represents filters and pagination for List.
type ListOrdersParams struct {
	Statuses      []models.OrderStatus
	ShopID        *int64
	DeliverymanID *int64
	PageSize      int
	AfterID       int64 // keyset cursor: return orders with id < AfterID
}

// List returns orders matching filters ordered by id desc with keyset pagination.
func (r *OrderRepository) List(ctx context.Context, p ListOrdersParams) ([]models.Order, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any

	if len(p.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(p.Statuses))+")")
		for _, s := range p.Statuses {
			args = append(args, string(s))
		}
	}
	if p.ShopID != nil {
		where = append(where, "shop_id = ?")
		args = append(args, *p.ShopID)
	}
	if p.DeliverymanID != nil {
		where = append(where, "deliveryman_id = ?")
		args = append(args, *p.DeliverymanID)
	}
	if p.AfterID > 0 {
		where = append(where, "id < ?")
		args = append(args, p.AfterID)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// FindManyForPayout loads the given orders with their seller (through the shop) and
// deliveryman, each with its wallet. Ids that do not exist are absent from the result.
func (r *OrderRepository) FindManyForPayout(ctx context.Context, ids []int64) ([]models.PayoutOrder, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT o.id, o.parent_id, o.shop_id, o.user_id, o.deliveryman_id, o.status, o.seller_fee, o.delivery_fee, o.created_at, o.updated_at, s.seller_id
FROM orders o
LEFT JOIN shops s ON s.id = o.shop_id
WHERE o.id IN (`+placeholders(len(ids))+`)
ORDER BY o.id`, args...)
	if err != nil {
		return nil, err
	}

	type loaded struct {
		order    *models.Order
		sellerID *int64
	}
	var list []loaded
	var partnerIDs []int64
	for rows.Next() {
		var sellerID sql.NullInt64
		o, err := scanOrder(rows, &sellerID)
		if err != nil {
			rows.Close()
			return nil, err
		}
		item := loaded{order: o, sellerID: nullInt64Ptr(sellerID)}
		if item.sellerID != nil {
			partnerIDs = append(partnerIDs, *item.sellerID)
		}
		if o.DeliverymanID != nil {
			partnerIDs = append(partnerIDs, *o.DeliverymanID)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	users, err := loadUsersWithWallets(ctx, r.db, partnerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PayoutOrder, 0, len(list))
	for _, item := range list {
		po := models.PayoutOrder{Order: *item.order}
		if item.sellerID != nil {
			po.Seller = users[*item.sellerID]
		}
		if item.order.DeliverymanID != nil {
			po.Deliveryman = users[*item.order.DeliverymanID]
		}
		out = append(out, po)
	}
	return out, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
