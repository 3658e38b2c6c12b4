package common

import (
	"context"
	"time"
)

// CacheInterface defines the contract for cache implementations. Values are
// stored as JSON so both backends hand back copies, never shared pointers.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(ctx context.Context, key string, value any, duration time.Duration) error

	// Get decodes the cached value into dst and reports whether it was found
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Delete removes values from cache by key
	Delete(ctx context.Context, keys ...string) error

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key, or loads and stores it. A
// cache failure falls through to the loader.
func GetOrLoad[T any](ctx context.Context, c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, bool, error) {
	var cached T
	if found, err := c.Get(ctx, key, &cached); err == nil && found {
		return cached, true, nil
	}

	val, err := loader()
	if err != nil {
		var zero T
		return zero, false, err
	}

	_ = c.Set(ctx, key, val, duration)
	return val, false, nil
}
