// Package orders applies lifecycle changes to individual orders.
package orders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"marketplaceOrders/internal/metrics"
	"marketplaceOrders/internal/result"
	"marketplaceOrders/internal/status"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

// Invalidator drops cached status listings.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// UpdateStatusInput is one status change request.
type UpdateStatusInput struct {
	OrderID       int64
	Status        string
	DeliverymanID *int64
	Note          *string
	ActingUserID  *int64
}

// TransitionService moves one order between statuses.
type TransitionService struct {
	store    *repository.Store
	policy   status.Policy
	registry Invalidator
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewTransitionService creates a TransitionService. Nil metrics and logger are allowed.
func NewTransitionService(store *repository.Store, policy status.Policy, registry Invalidator, m *metrics.Metrics, log *zap.Logger) *TransitionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransitionService{store: store, policy: policy, registry: registry, metrics: m, log: log}
}

// UpdateStatus validates and applies the change. The note, when given, and the order
// update are written in one transaction. It never returns a storage error directly.
func (s *TransitionService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (res result.Result[*models.Order]) {
	defer func() {
		label := in.Status
		if !models.OrderStatus(label).Valid() {
			label = "unknown"
		}
		s.metrics.ObserveTransition(label, res.Code)
	}()

	order, err := s.store.Orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return s.internal(in, "load order", err)
	}
	if order == nil {
		return result.Fail[*models.Order](result.NotFound)
	}

	to := models.OrderStatus(in.Status)
	if !to.Valid() {
		return result.Fail[*models.Order](result.InvalidStatus)
	}
	if !s.policy.IsAllowed(order.Status, to) {
		s.log.Info("status transition rejected",
			zap.Int64("order_id", order.ID),
			zap.String("from", order.Status.String()),
			zap.String("to", to.String()))
		return result.Transition[*models.Order](order.Status.String(), to.String())
	}

	var updated *models.Order
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		if in.Note != nil {
			if _, err := tx.Notes.Create(ctx, &models.OrderStatusNote{
				OrderID: order.ID,
				Status:  to,
				Note:    *in.Note,
				UserID:  in.ActingUserID,
			}); err != nil {
				return fmt.Errorf("create note: %w", err)
			}
		}
		if err := tx.Orders.UpdateStatus(ctx, order.ID, to, in.DeliverymanID); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		var err error
		updated, err = tx.Orders.GetByID(ctx, order.ID)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) || (err == nil && updated == nil) {
		// Deleted between the read and the write.
		return result.Fail[*models.Order](result.NotFound)
	}
	if err != nil {
		return s.internal(in, "apply transition", err)
	}

	if s.registry != nil {
		s.registry.Invalidate(ctx)
		s.metrics.ObserveInvalidation()
	}
	s.log.Info("order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", order.Status.String()),
		zap.String("to", to.String()))
	return result.OK(updated)
}

func (s *TransitionService) internal(in UpdateStatusInput, op string, err error) result.Result[*models.Order] {
	s.log.Error("update order status failed",
		zap.String("op", op),
		zap.Int64("order_id", in.OrderID),
		zap.String("to", in.Status),
		zap.Error(err))
	return result.Fail[*models.Order](result.InternalError)
}
