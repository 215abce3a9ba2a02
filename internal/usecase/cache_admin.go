package usecase

import (
	"context"
	"fmt"

	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
)

// CacheAdminUseCase backs the operational cache endpoints.
type CacheAdminUseCase struct {
	cache  cache.Service
	logger *applogger.Logger
}

func NewCacheAdminUseCase(cacheSvc cache.Service, logger *applogger.Logger) *CacheAdminUseCase {
	return &CacheAdminUseCase{cache: cacheSvc, logger: logger}
}

func (uc *CacheAdminUseCase) Health(ctx context.Context) cache.Health {
	return uc.cache.Health(ctx)
}

// Clear deletes keys matching pattern, or every scanner key when the
// pattern is empty.
func (uc *CacheAdminUseCase) Clear(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = cache.BuildPattern("")
	}
	n, err := uc.cache.DeleteByPattern(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	uc.logger.Info("cache cleared",
		applogger.String("pattern", pattern),
		applogger.Int("deleted", n),
	)
	return n, nil
}
