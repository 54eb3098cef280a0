package repository

import (
	"context"
	"errors"
	"time"

	"marketplaceOrders/models"
)

// PayoutRepository records partner payouts and their transactions.
type PayoutRepository struct {
	db DBTX
}

func NewPayoutRepository(db DBTX) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// CreatePartnerPayment inserts a PaymentToPartner row.
func (r *PayoutRepository) CreatePartnerPayment(ctx context.Context, p *models.PaymentToPartner) (*models.PaymentToPartner, error) {
	if p == nil {
		return nil, errors.New("partner payment is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO payment_to_partners (user_id, order_id, type, created_at) VALUES (?,?,?,?)`,
		p.UserID, p.OrderID, string(p.Type), p.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// CreateTransaction attaches a ledger transaction to a PaymentToPartner.
func (r *PayoutRepository) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t == nil {
		return nil, errors.New("transaction is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (payable_id, price, user_id, payment_sys_id, note, perform_time, status, status_description) VALUES (?,?,?,?,?,?,?,?)`,
		t.PayableID, t.Price.String(), t.UserID, t.PaymentSysID, t.Note, t.PerformTime, t.Status, t.StatusDescription)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// ListByOrder returns the payouts recorded for an order, oldest first.
func (r *PayoutRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.PaymentToPartner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, order_id, type, created_at FROM payment_to_partners WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.PaymentToPartner
	for rows.Next() {
		var p models.PaymentToPartner
		var typ string
		if err := rows.Scan(&p.ID, &p.UserID, &p.OrderID, &typ, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Type = models.PartnerType(typ)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListTransactions returns the transactions attached to a PaymentToPartner.
func (r *PayoutRepository) ListTransactions(ctx context.Context, payableID int64) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payable_id, price, user_id, payment_sys_id, note, perform_time, status, status_description FROM transactions WHERE payable_id = ? ORDER BY id`, payableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.PayableID, &t.Price, &t.UserID, &t.PaymentSysID, &t.Note, &t.PerformTime, &t.Status, &t.StatusDescription); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
