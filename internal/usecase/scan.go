package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/service/dedup"
	"StockScan/internal/strategy"
	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
	"StockScan/pkg/util"
)

// ScanUseCase runs the fetch -> indicators -> score -> signal pipeline over
// a symbol list and handles the caching and dedup around it.
type ScanUseCase struct {
	market  drepo.MarketData
	cache   cache.Service
	guard   *dedup.Guard
	pub     drepo.SignalPublisher
	metrics drepo.Metrics
	logger  *applogger.Logger

	params    strategy.SignalParams
	seriesTTL time.Duration
	signalTTL time.Duration
	statsTTL  time.Duration
	workers   int
}

type ScanOption func(*ScanUseCase)

func WithSignalParams(p strategy.SignalParams) ScanOption {
	return func(uc *ScanUseCase) { uc.params = p }
}

func WithSeriesTTL(d time.Duration) ScanOption {
	return func(uc *ScanUseCase) {
		if d > 0 {
			uc.seriesTTL = d
		}
	}
}

func WithSignalTTL(d time.Duration) ScanOption {
	return func(uc *ScanUseCase) {
		if d > 0 {
			uc.signalTTL = d
		}
	}
}

func WithScanWorkers(n int) ScanOption {
	return func(uc *ScanUseCase) {
		if n > 0 {
			uc.workers = n
		}
	}
}

func NewScanUseCase(
	market drepo.MarketData,
	cacheSvc cache.Service,
	guard *dedup.Guard,
	pub drepo.SignalPublisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	opts ...ScanOption,
) *ScanUseCase {
	uc := &ScanUseCase{
		market:    market,
		cache:     cacheSvc,
		guard:     guard,
		pub:       pub,
		metrics:   metrics,
		logger:    logger,
		params:    strategy.DefaultSignalParams(),
		seriesTTL: time.Hour,
		signalTTL: 24 * time.Hour,
		statsTTL:  24 * time.Hour,
		workers:   8,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type ScanParams struct {
	Symbols  []string
	Interval drepo.Interval
	Bars     int
}

// Scan processes all symbols concurrently and returns results in request
// order. Per-symbol failures become error entries, not a failed scan.
func (uc *ScanUseCase) Scan(ctx context.Context, p ScanParams) (*models.ScanResponse, error) {
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols to scan")
	}
	if !drepo.IsValidInterval(p.Interval) {
		p.Interval = drepo.DefaultInterval()
	}
	if p.Bars < models.MinBars {
		p.Bars = 100
	}

	start := time.Now()
	results := make([]models.SymbolResult, len(p.Symbols))

	sem := make(chan struct{}, uc.workers)
	var wg sync.WaitGroup
	for i, raw := range p.Symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = uc.scanSymbol(ctx, symbol, p.Interval, p.Bars)
		}(i, raw)
	}
	wg.Wait()

	stats := uc.buildStats(results, time.Since(start))
	uc.storeStats(ctx, stats)
	if uc.metrics != nil {
		uc.metrics.RecordScan(len(p.Symbols), stats.ScanDurationSeconds)
	}
	uc.logger.Info("scan complete",
		applogger.Int("symbols", stats.TotalStocksScanned),
		applogger.Int("signals", stats.SignalsFound),
		applogger.Int("errors", stats.Errors),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	return &models.ScanResponse{
		Timestamp: time.Now().UTC(),
		Results:   results,
		Stats:     stats,
	}, nil
}

func (uc *ScanUseCase) scanSymbol(ctx context.Context, raw string, interval drepo.Interval, bars int) models.SymbolResult {
	symbol := models.NormalizeSymbol(raw)
	if err := models.ValidateSymbol(symbol); err != nil {
		uc.recordError("validation")
		return models.SymbolResult{Symbol: raw, Error: err.Error()}
	}

	series, cached, err := uc.loadSeries(ctx, symbol, interval, bars)
	if err != nil {
		uc.recordError("fetch")
		uc.logger.Warn("symbol fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return models.SymbolResult{Symbol: symbol, Error: err.Error()}
	}
	if err := series.Validate(); err != nil {
		uc.recordError("data")
		return models.SymbolResult{Symbol: symbol, Error: err.Error()}
	}

	features, snap := strategy.BuildFeatures(series)
	score := strategy.ComputeScore(features)
	buy := strategy.DetectLongSignal(features)

	result := models.SymbolResult{
		Symbol:    symbol,
		Score:     score,
		BuySignal: buy,
		Features:  &features,
		Last: &models.LastValues{
			Close: snap.Close,
			RSI:   snap.RSI,
			MFI:   snap.MFI,
		},
		Cached: cached,
	}

	if buy {
		uc.emitSignal(ctx, symbol, features, snap)
	}
	return result
}

// Series returns the raw OHLCV history for one symbol, read through the
// same cache the scan uses. The bool reports whether it was a cache hit.
func (uc *ScanUseCase) Series(ctx context.Context, symbol string, interval drepo.Interval, bars int) (*models.PriceSeries, bool, error) {
	symbol = models.NormalizeSymbol(symbol)
	if err := models.ValidateSymbol(symbol); err != nil {
		return nil, false, err
	}
	if !drepo.IsValidInterval(interval) {
		interval = drepo.DefaultInterval()
	}
	if bars < models.MinBars {
		bars = 100
	}
	return uc.loadSeries(ctx, symbol, interval, bars)
}

// loadSeries reads through the cache: a hit skips the upstream fetch, a
// miss fetches and stores for later scans of the same symbol.
func (uc *ScanUseCase) loadSeries(ctx context.Context, symbol string, interval drepo.Interval, bars int) (*models.PriceSeries, bool, error) {
	key := cache.GenerateKeyWithParams("scandata", symbol, interval, bars)

	var series models.PriceSeries
	err := uc.cache.Get(ctx, key, &series)
	if err == nil && series.Len() > 0 {
		if uc.metrics != nil {
			uc.metrics.RecordCacheHit("series")
		}
		return &series, true, nil
	}
	if err != nil && err != cache.ErrCacheMiss {
		uc.logger.Warn("series cache read failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	if uc.metrics != nil {
		uc.metrics.RecordCacheMiss("series")
	}

	fetched, err := uc.market.Fetch(ctx, symbol, interval, bars)
	if err != nil {
		return nil, false, err
	}
	if err := uc.cache.Set(ctx, key, fetched, uc.seriesTTL); err != nil {
		uc.logger.Warn("series cache write failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	return fetched, false, nil
}

// emitSignal builds, persists and publishes a long signal unless one was
// already emitted for this symbol today.
func (uc *ScanUseCase) emitSignal(ctx context.Context, symbol string, features models.FeatureSet, snap strategy.Snapshot) {
	date := util.TodayTradingDate()
	if uc.guard.IsDuplicate(ctx, symbol, date) {
		uc.logger.Debug("signal suppressed as duplicate",
			applogger.String("symbol", symbol),
			applogger.String("date", date),
		)
		return
	}

	signal := strategy.BuildSignal(symbol, features, snap, uc.params, time.Now().UTC())
	if signal == nil {
		return
	}
	if err := signal.Validate(); err != nil {
		uc.recordError("signal")
		uc.logger.Error("built signal failed validation",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return
	}

	if err := uc.cache.Set(ctx, signal.CacheKey(), signal, uc.signalTTL); err != nil {
		uc.logger.Warn("signal cache write failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	if err := uc.guard.MarkProcessed(ctx, symbol, signal.DetectedDate, signal.EntryPrice); err != nil {
		uc.logger.Warn("dedup mark failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	if uc.pub != nil {
		if err := uc.pub.Publish(ctx, signal); err != nil {
			uc.recordError("publish")
			uc.logger.Error("signal publish failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	if uc.metrics != nil {
		uc.metrics.RecordSignal(symbol)
	}
	uc.logger.Info("signal detected",
		applogger.String("symbol", symbol),
		applogger.Int("score", signal.ConfirmationScore),
		applogger.Any("entry", signal.EntryPrice),
	)
}

func (uc *ScanUseCase) buildStats(results []models.SymbolResult, elapsed time.Duration) *models.ScanStats {
	stats := &models.ScanStats{
		ScanDate:            util.TodayTradingDate(),
		ScanTime:            time.Now().UTC(),
		TotalStocksScanned:  len(results),
		ScanDurationSeconds: elapsed.Seconds(),
	}
	for _, r := range results {
		if r.Error != "" {
			stats.Errors++
			continue
		}
		if r.BuySignal {
			stats.SignalsFound++
		}
	}
	return stats
}

func (uc *ScanUseCase) storeStats(ctx context.Context, stats *models.ScanStats) {
	if err := uc.cache.Set(ctx, stats.CacheKey(), stats, uc.statsTTL); err != nil {
		uc.logger.Warn("stats cache write failed", applogger.Error(err))
	}
}

func (uc *ScanUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordSymbolError(kind)
	}
}

// Close releases the upstream market data connection.
func (uc *ScanUseCase) Close() {
	if uc.market != nil {
		_ = uc.market.Close()
	}
	if uc.pub != nil {
		_ = uc.pub.Close()
	}
}
