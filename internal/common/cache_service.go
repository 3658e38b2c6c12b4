package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache used for single-instance deployments
// and tests.
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(_ context.Context, key string, value any, duration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal value for key %s: %w", key, err)
	}
	cs.cache.Set(key, data, duration)
	return nil
}

func (cs *CacheService) Get(_ context.Context, key string, dst any) (bool, error) {
	val, found := cs.cache.Get(key)
	if !found {
		return false, nil
	}

	data, ok := val.([]byte)
	if !ok {
		return false, fmt.Errorf("cache: unexpected value type %T for key %s", val, key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache: failed to unmarshal value for key %s: %w", key, err)
	}
	return true, nil
}

func (cs *CacheService) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		cs.cache.Delete(key)
	}
	return nil
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
