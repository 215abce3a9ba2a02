package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Health describes the store's backend state.
type Health struct {
	Status         string `json:"status"`
	Connected      bool   `json:"connected"`
	FallbackActive bool   `json:"fallback_active"`
	Backend        string `json:"backend"`
}

// Service defines cache operations. Values round-trip through JSON; every
// key is namespaced "namespace:key" by the implementation. Backend failures
// surface to the caller, who decides per error kind whether they are soft.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes keys matching a shell-glob pattern against the
	// namespaced key and returns how many were deleted. Not atomic across
	// keys; a concurrent Set on a matching key may or may not survive.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
	Exists(ctx context.Context, keys ...string) (bool, error)
	Health(ctx context.Context) Health
}
