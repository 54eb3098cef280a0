package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplaceOrders/models"
)

// StatusRepository stores the configurable order status vocabulary.
type StatusRepository struct {
	db DBTX
}

func NewStatusRepository(db DBTX) *StatusRepository {
	return &StatusRepository{db: db}
}

// ListAll returns every status definition ordered by sort asc, then id asc.
func (r *StatusRepository) ListAll(ctx context.Context) ([]models.StatusDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, active, sort FROM order_statuses ORDER BY sort ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.StatusDefinition
	for rows.Next() {
		var s models.StatusDefinition
		if err := rows.Scan(&s.ID, &s.Name, &s.Active, &s.Sort); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetActive toggles whether a status is offered.
func (r *StatusRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, `UPDATE order_statuses SET active = ? WHERE id = ?`, active, id)
}

// SetSort changes the display position of a status.
func (r *StatusRepository) SetSort(ctx context.Context, id int64, sort int) error {
	return r.exec(ctx, `UPDATE order_statuses SET sort = ? WHERE id = ?`, sort, id)
}

func (r *StatusRepository) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// NoteRepository stores order status notes. Notes are append-only.
type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create appends a note.
func (r *NoteRepository) Create(ctx context.Context, n *models.OrderStatusNote) (*models.OrderStatusNote, error) {
	if n == nil {
		return nil, errors.New("note is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO order_status_notes (order_id, status, note, user_id, created_at) VALUES (?,?,?,?,?)`,
		n.OrderID, string(n.Status), n.Note, n.UserID, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	n.ID = id
	return n, nil
}

// ListByOrder returns the notes of an order, oldest first.
func (r *NoteRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.OrderStatusNote, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, status, note, user_id, created_at FROM order_status_notes WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.OrderStatusNote
	for rows.Next() {
		var n models.OrderStatusNote
		var status string
		var userID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.OrderID, &status, &n.Note, &userID, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Status = models.OrderStatus(status)
		n.UserID = nullInt64Ptr(userID)
		out = append(out, n)
	}
	return out, rows.Err()
}
