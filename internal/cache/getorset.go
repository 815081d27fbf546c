package cache

import (
	"context"
	"fmt"
	"time"
)

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[V any] func(ctx context.Context) (V, error)

// GetAs is a typed Get. ok is false on a miss; err is ErrTypeMismatch when the
// cached value is not a V.
func GetAs[V any](c Cache, key string) (V, bool, error) {
	var zero V
	raw, ok := c.Get(key)
	if !ok {
		return zero, false, nil
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false, fmt.Errorf("%w: key %q holds %T, want %T", ErrTypeMismatch, key, raw, zero)
	}
	return v, true, nil
}

// GetOrSet returns the cached value for key, or calls fetch and caches its
// result on a miss. A fetch error is returned unchanged and nothing is cached.
//
// Concurrent misses on the same key each call fetch; there is no request
// coalescing here. Use GetOrSetShared when the fetch is expensive enough for a
// stampede to matter.
func GetOrSet[V any](ctx context.Context, c Cache, key string, fetch FetchFn[V], ttl time.Duration) (V, error) {
	var zero V
	if ttl < 0 {
		return zero, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	if v, ok, err := GetAs[V](c, key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	if err := c.Set(key, v, ttl); err != nil {
		return zero, err
	}
	return v, nil
}

// GetOrSetShared behaves like GetOrSet, except concurrent misses on the same key
// share one fetch call. The fetch runs with the context of whichever caller
// started it, and a fetch error is returned to every waiter of that call.
func GetOrSetShared[V any](ctx context.Context, e *Engine, key string, fetch FetchFn[V], ttl time.Duration) (V, error) {
	var zero V
	if ttl < 0 {
		return zero, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	if v, ok, err := GetAs[V](e, key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	res, err, _ := e.flight.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := e.Set(key, v, ttl); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}
