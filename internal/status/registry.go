// Package status holds the order status vocabulary and the lifecycle rules
// that govern moving an order between statuses.
package status

import (
	"context"
	"time"

	"go.uber.org/zap"

	"marketplaceOrders/internal/cache"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

const (
	// CacheKey is where the status list is cached.
	CacheKey = "order-status-list"
	// DefaultTTL bounds how long a cached list is served.
	DefaultTTL = 10 * 24 * time.Hour
)

// Registry serves the configured order statuses through a cache.
type Registry struct {
	store repository.StatusRepositoryI
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewRegistry builds a Registry. A non-positive ttl falls back to DefaultTTL.
func NewRegistry(store repository.StatusRepositoryI, c cache.Cache, ttl time.Duration, log *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, cache: c, ttl: ttl, log: log}
}

// List returns every configured status, active or not, ordered by sort.
func (r *Registry) List(ctx context.Context) ([]models.StatusDefinition, error) {
	var defs []models.StatusDefinition
	hit, err := r.cache.Get(ctx, CacheKey, &defs)
	if err != nil {
		r.log.Warn("status cache read failed", zap.Error(err))
	}
	if hit && err == nil {
		return defs, nil
	}

	defs, err = r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, CacheKey, defs, r.ttl); err != nil {
		r.log.Warn("status cache write failed", zap.Error(err))
	}
	return defs, nil
}

// ListActive returns the active statuses ordered by sort ascending.
func (r *Registry) ListActive(ctx context.Context) ([]models.StatusDefinition, error) {
	defs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.StatusDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Active {
			active = append(active, d)
		}
	}
	return active, nil
}

// NamesByID maps active status ids to their names.
func (r *Registry) NamesByID(ctx context.Context) (map[int64]string, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(active))
	for _, d := range active {
		names[d.ID] = d.Name
	}
	return names, nil
}

// Invalidate drops the cached list. Failures are logged only.
func (r *Registry) Invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, CacheKey); err != nil {
		r.log.Warn("status cache invalidation failed", zap.Error(err))
	}
}

// SetActive enables or disables a status.
func (r *Registry) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.Invalidate(ctx)
	return r.store.SetActive(ctx, id, active)
}

// SetSort moves a status to a new display position.
func (r *Registry) SetSort(ctx context.Context, id int64, sort int) error {
	defer r.Invalidate(ctx)
	return r.store.SetSort(ctx, id, sort)
}
