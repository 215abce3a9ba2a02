package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal    prometheus.Counter
	scanSymbols   prometheus.Histogram
	scanDuration  prometheus.Histogram
	signalsTotal  *prometheus.CounterVec
	symbolErrors  *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	ordersTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockscan_scans_total",
				Help: "Total number of scan runs",
			},
		),
		scanSymbols: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockscan_scan_symbols",
				Help:    "Symbols per scan run",
				Buckets: []float64{1, 5, 10, 25, 50, 100},
			},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockscan_scan_duration_seconds",
				Help:    "Duration of scan runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_signals_total",
				Help: "Buy signals emitted per symbol",
			},
			[]string{"symbol"},
		),
		symbolErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_symbol_errors_total",
				Help: "Per-symbol scan failures by kind",
			},
			[]string{"kind"},
		),
		cacheRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_cache_requests_total",
				Help: "Cache lookups by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		ordersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_orders_total",
				Help: "Orders placed by resulting status",
			},
			[]string{"status"},
		),
	}
}

// RecordScan records one completed scan run.
func (r *Recorder) RecordScan(symbols int, seconds float64) {
	r.scansTotal.Inc()
	r.scanSymbols.Observe(float64(symbols))
	r.scanDuration.Observe(seconds)
}

// RecordSignal records an emitted buy signal.
func (r *Recorder) RecordSignal(symbol string) {
	r.signalsTotal.WithLabelValues(symbol).Inc()
}

// RecordSymbolError records a per-symbol scan failure.
func (r *Recorder) RecordSymbolError(kind string) {
	r.symbolErrors.WithLabelValues(kind).Inc()
}

// RecordCacheHit records a cache hit for an operation.
func (r *Recorder) RecordCacheHit(op string) {
	r.cacheRequests.WithLabelValues(op, "hit").Inc()
}

// RecordCacheMiss records a cache miss for an operation.
func (r *Recorder) RecordCacheMiss(op string) {
	r.cacheRequests.WithLabelValues(op, "miss").Inc()
}

// RecordOrder records an order placement outcome.
func (r *Recorder) RecordOrder(status string) {
	r.ordersTotal.WithLabelValues(status).Inc()
}
