package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplaceOrders/models"
)

// PaymentRepository reads configured payment systems.
type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByID returns the payment method or (nil, nil) when absent.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	return r.getOne(ctx, `SELECT id, tag, active FROM payments WHERE id = ?`, id)
}

// GetByTag returns the payment method with the given tag or (nil, nil) when absent.
func (r *PaymentRepository) GetByTag(ctx context.Context, tag string) (*models.PaymentMethod, error) {
	return r.getOne(ctx, `SELECT id, tag, active FROM payments WHERE tag = ?`, tag)
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg any) (*models.PaymentMethod, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var p models.PaymentMethod
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Tag, &p.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
