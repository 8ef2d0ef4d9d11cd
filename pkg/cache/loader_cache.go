// Package cache provides a generic loader cache combining TTL'd LRU storage
// with singleflight to coalesce concurrent loads for the same key.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// LoaderCache is a generic cache that loads values on miss via a callback
// and coalesces concurrent loads for the same key using singleflight.
// Entries expire after the configured TTL so slow-changing upstream data
// (event objectives, layouts) is re-read without explicit invalidation.
// Keys are converted to strings internally for LRU and singleflight.
type LoaderCache[K comparable, V any] struct {
	lru         *expirable.LRU[string, V]
	group       singleflight.Group
	keyToString func(K) string
}

// NewLoaderCache creates a loader cache with the given max entries, entry
// TTL and key serializer. A zero TTL disables expiry.
func NewLoaderCache[K comparable, V any](maxEntries int, ttl time.Duration, keyToString func(K) string) *LoaderCache[K, V] {
	return &LoaderCache[K, V]{
		lru:         expirable.NewLRU[string, V](maxEntries, nil, ttl),
		keyToString: keyToString,
	}
}

// Get returns the value for key, loading it via load on cache miss. On
// miss, only one goroutine runs load() for that key; concurrent callers
// block and share that result.
func (c *LoaderCache[K, V]) Get(ctx context.Context, key K, load func(context.Context, K) (V, error)) (V, error) {
	keyStr := c.keyToString(key)
	if v, ok := c.lru.Get(keyStr); ok {
		return v, nil
	}

	val, err, _ := c.group.Do(keyStr, func() (any, error) {
		loaded, loadErr := load(ctx, key)
		if loadErr != nil {
			return zero[V](), loadErr
		}

		c.lru.Add(keyStr, loaded)

		return loaded, nil
	})
	if err != nil {
		return zero[V](), err
	}

	return val.(V), nil
}

func zero[V any]() (z V) { return z }

// Invalidate removes the entry for key.
func (c *LoaderCache[K, V]) Invalidate(key K) {
	c.lru.Remove(c.keyToString(key))
}

// InvalidateAll removes all entries.
func (c *LoaderCache[K, V]) InvalidateAll() {
	c.lru.Purge()
}

// Len returns the number of entries in the cache.
func (c *LoaderCache[K, V]) Len() int {
	return c.lru.Len()
}
