package repository

import (
	"context"

	"marketplaceOrders/models"
)

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, deliverymanID *int64) error
	List(ctx context.Context, p ListOrdersParams) ([]models.Order, error)
	FindManyForPayout(ctx context.Context, ids []int64) ([]models.PayoutOrder, error)
}

// StatusRepositoryI defines operations on the status vocabulary.
type StatusRepositoryI interface {
	ListAll(ctx context.Context) ([]models.StatusDefinition, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetSort(ctx context.Context, id int64, sort int) error
}

// PaymentRepositoryI defines lookups of payment systems.
type PaymentRepositoryI interface {
	GetByID(ctx context.Context, id int64) (*models.PaymentMethod, error)
	GetByTag(ctx context.Context, tag string) (*models.PaymentMethod, error)
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, role string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

var (
	_ OrderRepositoryI   = (*OrderRepository)(nil)
	_ StatusRepositoryI  = (*StatusRepository)(nil)
	_ PaymentRepositoryI = (*PaymentRepository)(nil)
	_ UserRepositoryI    = (*UserRepository)(nil)
)
