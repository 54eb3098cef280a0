package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplaceOrders/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with the given username and role.
// Role defaults to 'user'.
func (r *UserRepository) Create(ctx context.Context, username, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, role) VALUES (?, ?)`, username, role)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, Role: role}, nil
}

// GetByID returns the user with its wallet, or (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	users, err := loadUsersWithWallets(ctx, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	return users[id], nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, username, role FROM users WHERE username = ?`, username).Scan(&u.ID, &u.Username, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, username, role FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRoleByUsername sets the role for the given username.
func (r *UserRepository) UpdateRoleByUsername(ctx context.Context, username, role string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, role, username)
	return err
}

// CreateShop registers a shop owned by sellerID.
func (r *UserRepository) CreateShop(ctx context.Context, sellerID int64) (*models.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO shops (seller_id) VALUES (?)`, sellerID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Shop{ID: id, SellerID: sellerID}, nil
}

// loadUsersWithWallets fetches users by id together with their wallets, keyed by user id.
func loadUsersWithWallets(ctx context.Context, db DBTX, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.QueryContext(ctx, `
SELECT u.id, u.username, u.role, w.id, w.balance
FROM users u
LEFT JOIN wallets w ON w.user_id = u.id
WHERE u.id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		var walletID sql.NullInt64
		var balance sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &walletID, &balance); err != nil {
			return nil, err
		}
		if walletID.Valid {
			w := &models.Wallet{ID: walletID.Int64, UserID: u.ID}
			if err := w.Balance.Scan(balance.String); err != nil {
				return nil, err
			}
			u.Wallet = w
		}
		out[u.ID] = &u
	}
	return out, rows.Err()
}
