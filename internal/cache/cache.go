// Package cache provides the key/value capability the order status registry
// caches through. Values are JSON encoded so every backend stores the same bytes.
package cache

import (
	"context"
	"time"
)

// Cache gets, sets and invalidates values by key.
type Cache interface {
	// Get decodes the value stored under key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores value under key for ttl. A non-positive ttl never expires.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
