package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"marketplaceOrders/models"
)

// WalletRepository stores wallets and their append-only history.
type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create opens a wallet for userID with an initial balance.
func (r *WalletRepository) Create(ctx context.Context, userID int64, balance decimal.Decimal) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO wallets (user_id, balance) VALUES (?, ?)`, userID, balance.String())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Wallet{ID: id, UserID: userID, Balance: balance}, nil
}

// GetByUserID returns the user's wallet or (nil, nil) when the user has none.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var w models.Wallet
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, balance FROM wallets WHERE user_id = ?`, userID).Scan(&w.ID, &w.UserID, &w.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// AdjustBalance adds delta (which may be negative) to the wallet balance and returns the new balance.
// Callers moving money should run it inside the same transaction as the history insert.
func (r *WalletRepository) AdjustBalance(ctx context.Context, walletID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var current decimal.Decimal
	if err := r.db.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE id = ?`, walletID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("wallet %d: %w", walletID, ErrNotFound)
		}
		return decimal.Zero, err
	}
	next := current.Add(delta)
	if _, err := r.db.ExecContext(ctx, `UPDATE wallets SET balance = ? WHERE id = ?`, next.String(), walletID); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// AddHistory appends a movement record.
func (r *WalletRepository) AddHistory(ctx context.Context, h *models.WalletHistory) (*models.WalletHistory, error) {
	if h == nil {
		return nil, errors.New("wallet history is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wallet_histories (uuid, wallet_id, type, amount, note, status, created_by, created_at) VALUES (?,?,?,?,?,?,?,?)`,
		h.UUID, h.WalletID, string(h.Type), h.Amount.String(), h.Note, h.Status, h.CreatedBy, h.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	h.ID = id
	return h, nil
}

// ListHistory returns the wallet's movements in insertion order.
func (r *WalletRepository) ListHistory(ctx context.Context, walletID int64) ([]models.WalletHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, uuid, wallet_id, type, amount, note, status, created_by, created_at FROM wallet_histories WHERE wallet_id = ? ORDER BY id`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.WalletHistory
	for rows.Next() {
		var h models.WalletHistory
		var typ string
		var createdBy sql.NullInt64
		if err := rows.Scan(&h.ID, &h.UUID, &h.WalletID, &typ, &h.Amount, &h.Note, &h.Status, &createdBy, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Type = models.WalletHistoryType(typ)
		h.CreatedBy = nullInt64Ptr(createdBy)
		out = append(out, h)
	}
	return out, rows.Err()
}
