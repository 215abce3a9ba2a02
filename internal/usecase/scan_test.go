package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/service/dedup"
	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
)

type fakeMarket struct {
	mu     sync.Mutex
	series map[string]*models.PriceSeries
	errs   map[string]error
	calls  map[string]int
}

func (f *fakeMarket) Fetch(_ context.Context, symbol string, _ drepo.Interval, _ int) (*models.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol]++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, &models.DataFetchError{Source: "fake", Symbol: symbol, Err: fmt.Errorf("unknown symbol")}
	}
	return s, nil
}

func (f *fakeMarket) Health(context.Context) error { return nil }
func (f *fakeMarket) Close() error                 { return nil }

type fakePublisher struct {
	mu      sync.Mutex
	signals []*models.Signal
}

func (f *fakePublisher) Publish(_ context.Context, s *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, s)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signals)
}

// risingSeries produces n bars trending up with every confirmation flag on.
func risingSeries(n int) *models.PriceSeries {
	s := &models.PriceSeries{
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		s.Open[i] = base - 0.5
		s.Close[i] = base
		s.High[i] = base + 1
		s.Low[i] = base - 2
		s.Volume[i] = 1000 + float64(i*10)
	}
	return s
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newScanFixture(t *testing.T, market *fakeMarket) (*ScanUseCase, *fakePublisher, cache.Service) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	guard := dedup.NewGuard(mc, nil, time.Hour)
	pub := &fakePublisher{}
	uc := NewScanUseCase(market, mc, guard, pub, nil, testLogger(t), WithScanWorkers(4))
	return uc, pub, mc
}

func TestScanEmitsSignalForRisingSymbol(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"NSE:INFY": risingSeries(80),
	}}
	uc, pub, _ := newScanFixture(t, market)

	resp, err := uc.Scan(context.Background(), ScanParams{
		Symbols:  []string{"NSE:INFY"},
		Interval: drepo.IV1d,
		Bars:     80,
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Error != "" {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if !r.BuySignal {
		t.Fatalf("rising series should produce a buy signal, score=%d features=%+v", r.Score, r.Features)
	}
	if pub.count() != 1 {
		t.Fatalf("published %d signals, want 1", pub.count())
	}
	if resp.Stats == nil || resp.Stats.SignalsFound != 1 || resp.Stats.TotalStocksScanned != 1 {
		t.Fatalf("stats = %+v", resp.Stats)
	}
}

func TestScanDeduplicatesWithinDay(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"NSE:INFY": risingSeries(80),
	}}
	uc, pub, _ := newScanFixture(t, market)

	params := ScanParams{Symbols: []string{"NSE:INFY"}, Interval: drepo.IV1d, Bars: 80}
	if _, err := uc.Scan(context.Background(), params); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	resp, err := uc.Scan(context.Background(), params)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if !resp.Results[0].BuySignal {
		t.Fatalf("buy decision must stay deterministic on rescan")
	}
	if pub.count() != 1 {
		t.Fatalf("published %d signals after rescan, want 1", pub.count())
	}
}

func TestScanServesSeriesFromCache(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"NSE:INFY": risingSeries(80),
	}}
	uc, _, _ := newScanFixture(t, market)

	params := ScanParams{Symbols: []string{"NSE:INFY"}, Interval: drepo.IV1d, Bars: 80}
	first, _ := uc.Scan(context.Background(), params)
	second, _ := uc.Scan(context.Background(), params)

	if first.Results[0].Cached {
		t.Fatalf("first scan must fetch upstream")
	}
	if !second.Results[0].Cached {
		t.Fatalf("second scan must hit the series cache")
	}
	if market.calls["NSE:INFY"] != 1 {
		t.Fatalf("upstream fetched %d times, want 1", market.calls["NSE:INFY"])
	}
}

func TestScanIsolatesSymbolFailures(t *testing.T) {
	market := &fakeMarket{
		series: map[string]*models.PriceSeries{
			"NSE:INFY": risingSeries(80),
			"NSE:TCS":  risingSeries(5), // below the minimum bar count
		},
		errs: map[string]error{
			"NSE:HDFC": fmt.Errorf("upstream timeout"),
		},
	}
	uc, _, _ := newScanFixture(t, market)

	resp, err := uc.Scan(context.Background(), ScanParams{
		Symbols:  []string{"NSE:INFY", "NSE:TCS", "NSE:HDFC"},
		Interval: drepo.IV1d,
		Bars:     80,
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(resp.Results))
	}
	if resp.Results[0].Symbol != "NSE:INFY" || resp.Results[0].Error != "" {
		t.Fatalf("healthy symbol affected: %+v", resp.Results[0])
	}
	if resp.Results[1].Error == "" {
		t.Fatalf("short series must error")
	}
	if resp.Results[2].Error == "" {
		t.Fatalf("fetch failure must error")
	}
	if resp.Stats.Errors != 2 {
		t.Fatalf("stats errors = %d, want 2", resp.Stats.Errors)
	}
}

func TestScanRejectsEmptySymbolList(t *testing.T) {
	uc, _, _ := newScanFixture(t, &fakeMarket{})
	if _, err := uc.Scan(context.Background(), ScanParams{}); err == nil {
		t.Fatalf("expected error for empty symbol list")
	}
}

func TestScanWritesSignalThrough(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"NSE:INFY": risingSeries(80),
	}}
	uc, pub, mc := newScanFixture(t, market)

	if _, err := uc.Scan(context.Background(), ScanParams{
		Symbols: []string{"NSE:INFY"}, Interval: drepo.IV1d, Bars: 80,
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if pub.count() != 1 {
		t.Fatalf("published %d signals", pub.count())
	}
	var stored models.Signal
	if err := mc.Get(context.Background(), pub.signals[0].CacheKey(), &stored); err != nil {
		t.Fatalf("signal not written through: %v", err)
	}
	if stored.Symbol != "NSE:INFY" {
		t.Fatalf("stored signal = %+v", stored)
	}
	if !(stored.StopLoss < stored.EntryPrice && stored.EntryPrice < stored.TakeProfit) {
		t.Fatalf("price ordering violated: %+v", stored)
	}
}
