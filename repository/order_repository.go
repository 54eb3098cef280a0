package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketplaceOrders/models"
)

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("not found")

// OrderRepository is the core repository for Order entities.
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, parent_id, shop_id, user_id, deliveryman_id, status, seller_fee, delivery_fee, created_at, updated_at`

// Create inserts a new order. Status defaults to 'new' if empty.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	if o.Status == "" {
		o.Status = models.OrderStatusNew
	}
	if !o.Status.Valid() {
		return nil, fmt.Errorf("invalid order status %q", o.Status)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO orders (parent_id, shop_id, user_id, deliveryman_id, status, seller_fee, delivery_fee) VALUES (?,?,?,?,?,?,?)`,
		o.ParentID, o.ShopID, o.UserID, o.DeliverymanID, string(o.Status), o.SellerFee.String(), o.DeliveryFee.String())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created order not found: id=%d", id)
	}
	return created, nil
}

// GetByID fetches an order by its ID. It returns (nil, nil) when the order does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// UpdateStatus sets the order status and, when deliverymanID is non-nil, the assigned deliveryman.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, deliverymanID *int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, deliveryman_id = COALESCE(?, deliveryman_id), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), deliverymanID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an order by ID.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder scans orderColumns followed by any extra destinations.
func scanOrder(row rowScanner, extra ...any) (*models.Order, error) {
	var o models.Order
	var status string
	var parentID, shopID, userID, deliverymanID sql.NullInt64
	dest := []any{&o.ID, &parentID, &shopID, &userID, &deliverymanID, &status, &o.SellerFee, &o.DeliveryFee, &o.CreatedAt, &o.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.ParentID = nullInt64Ptr(parentID)
	o.ShopID = nullInt64Ptr(shopID)
	o.UserID = nullInt64Ptr(userID)
	o.DeliverymanID = nullInt64Ptr(deliverymanID)
	return &o, nil
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
