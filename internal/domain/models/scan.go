package models

import (
	"fmt"
	"time"
)

// FeatureSet is the fixed set of confirmation flags the scoring engine
// consumes. The zero value means every flag is false.
type FeatureSet struct {
	OBVBullish         bool `json:"obv_bullish"`
	RSIBullish         bool `json:"rsi_bullish"`
	MFIBullish         bool `json:"mfi_bullish"`
	MarketStructure    bool `json:"market_structure"`
	CandlestickBullish bool `json:"candlestick_bullish"`
	NotFalling         bool `json:"not_falling"`
	HTFUptrend         bool `json:"htf_uptrend"`
	EMATrend           bool `json:"ema_trend"`
}

// LastValues is the tail snapshot attached to a scan result.
// RSI/MFI are nil when the series was too short to define them.
type LastValues struct {
	Close float64  `json:"close"`
	RSI   *float64 `json:"rsi"`
	MFI   *float64 `json:"mfi"`
}

// SymbolResult is one symbol's scan outcome: either an error entry or a
// score/decision payload, optionally tagged as served from cache.
type SymbolResult struct {
	Symbol    string      `json:"symbol"`
	Error     string      `json:"error,omitempty"`
	Score     int         `json:"score"`
	BuySignal bool        `json:"buy_signal"`
	Features  *FeatureSet `json:"features,omitempty"`
	Last      *LastValues `json:"last,omitempty"`
	Cached    bool        `json:"cached,omitempty"`
}

// ScanResponse aggregates per-symbol results for one scan request.
type ScanResponse struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []SymbolResult `json:"results"`
	Stats     *ScanStats     `json:"stats,omitempty"`
}

// ScanStats summarizes one scan run, cached per trading day.
type ScanStats struct {
	ScanDate            string    `json:"scan_date"`
	ScanTime            time.Time `json:"scan_time"`
	TotalStocksScanned  int       `json:"total_stocks_scanned"`
	SignalsFound        int       `json:"signals_found"`
	OrdersPlaced        int       `json:"orders_placed"`
	OrdersFailed        int       `json:"orders_failed"`
	Errors              int       `json:"errors"`
	ScanDurationSeconds float64   `json:"scan_duration_seconds"`
}

// CacheKey returns the per-day stats cache key.
func (s *ScanStats) CacheKey() string {
	return fmt.Sprintf("scan:%s", s.ScanDate)
}
