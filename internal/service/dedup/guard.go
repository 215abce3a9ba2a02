package dedup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockScan/pkg/cache"
	"StockScan/pkg/logger"
)

// DefaultTTL keeps a dedup record long enough to cover one trading day
// plus after-hours reruns of the same scan.
const DefaultTTL = 24 * time.Hour

// Record is what we store per processed signal. A record only counts as
// a duplicate when it carries a hash; an empty one is ignored.
type Record struct {
	Hash        string    `json:"hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Guard prevents emitting more than one signal per symbol per trading day.
type Guard struct {
	cache  cache.Service
	ttl    time.Duration
	logger *logger.Logger
}

func NewGuard(c cache.Service, log *logger.Logger, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{cache: c, ttl: ttl, logger: log}
}

// IsDuplicate reports whether a signal for (symbol, date) was already
// processed. A record with an empty hash is treated as garbage, not a
// duplicate. Cache errors are treated as "not a duplicate": losing a
// dedup check costs one repeated signal, failing closed costs the scan.
func (g *Guard) IsDuplicate(ctx context.Context, symbol, date string) bool {
	var rec Record
	err := g.cache.Get(ctx, g.key(symbol, date), &rec)
	if err == nil {
		return rec.Hash != ""
	}
	if err != cache.ErrCacheMiss && g.logger != nil {
		g.logger.Warn("dedup check failed, allowing signal",
			logger.String("symbol", symbol),
			logger.String("date", date),
			logger.Error(err))
	}
	return false
}

// MarkProcessed records that a signal for (symbol, date) with the given
// entry price has been emitted.
func (g *Guard) MarkProcessed(ctx context.Context, symbol, date string, entryPrice float64) error {
	rec := Record{
		Hash:        ContentHash(symbol, date, entryPrice),
		ProcessedAt: time.Now().UTC(),
	}
	if err := g.cache.Set(ctx, g.key(symbol, date), rec, g.ttl); err != nil {
		return fmt.Errorf("mark processed %s/%s: %w", symbol, date, err)
	}
	return nil
}

// Clear removes the dedup record for (symbol, date), re-arming the guard.
func (g *Guard) Clear(ctx context.Context, symbol, date string) error {
	return g.cache.Delete(ctx, g.key(symbol, date))
}

func (g *Guard) key(symbol, date string) string {
	return cache.GenerateKeyWithParams("dup", symbol, date)
}

// ContentHash fingerprints a signal by symbol, date and entry price.
func ContentHash(symbol, date string, entryPrice float64) string {
	return cache.HashKey(symbol + "_" + date + "_" + strconv.FormatFloat(entryPrice, 'g', -1, 64))
}
