package cache

import (
	"context"
	"time"
)

// FallbackCache prefers a remote Redis store and transparently degrades to
// the process-local memory store whenever the remote is absent or a call to
// it fails. Reads that fall back never surface the backend error; a miss is
// a miss either way.
type FallbackCache struct {
	remote *RedisCache // nil when Redis was unreachable or unconfigured
	local  *MemoryCache
}

// NewFallbackCache wraps an optional Redis store over a memory store.
// Passing a nil remote selects pure fallback mode; that is expected when
// credentials are absent, not an error.
func NewFallbackCache(remote *RedisCache, local *MemoryCache) *FallbackCache {
	if local == nil {
		local = NewMemoryCache()
	}
	return &FallbackCache{remote: remote, local: local}
}

// Remote exposes the Redis store, nil in fallback mode. Lets other
// subsystems reuse the established connection.
func (fc *FallbackCache) Remote() *RedisCache {
	return fc.remote
}

func (fc *FallbackCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if fc.remote != nil {
		if err := fc.remote.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
	}
	return fc.local.Set(ctx, key, value, expiration)
}

func (fc *FallbackCache) Get(ctx context.Context, key string, dest interface{}) error {
	if fc.remote != nil {
		err := fc.remote.Get(ctx, key, dest)
		if err == nil || err == ErrCacheMiss {
			return err
		}
		// backend failure: treat as a local lookup
	}
	return fc.local.Get(ctx, key, dest)
}

func (fc *FallbackCache) Delete(ctx context.Context, keys ...string) error {
	var remoteErr error
	if fc.remote != nil {
		remoteErr = fc.remote.Delete(ctx, keys...)
	}
	if err := fc.local.Delete(ctx, keys...); err != nil {
		return err
	}
	return remoteErr
}

func (fc *FallbackCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if fc.remote != nil {
		if n, err := fc.remote.DeleteByPattern(ctx, pattern); err == nil {
			localN, _ := fc.local.DeleteByPattern(ctx, pattern)
			if localN > n {
				n = localN
			}
			return n, nil
		}
	}
	return fc.local.DeleteByPattern(ctx, pattern)
}

func (fc *FallbackCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if fc.remote != nil {
		if ok, err := fc.remote.Exists(ctx, keys...); err == nil {
			return ok, nil
		}
	}
	return fc.local.Exists(ctx, keys...)
}

func (fc *FallbackCache) Health(ctx context.Context) Health {
	if fc.remote != nil {
		h := fc.remote.Health(ctx)
		if h.Connected {
			return h
		}
		return Health{Status: StatusDegraded, FallbackActive: true, Backend: "memory"}
	}
	return fc.local.Health(ctx)
}

// Close releases both stores.
func (fc *FallbackCache) Close() error {
	_ = fc.local.Close()
	if fc.remote != nil {
		return fc.remote.Close()
	}
	return nil
}
