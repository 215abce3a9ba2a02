package models

import (
	"fmt"
	"time"
)

// StrategyVersion tags signals with the scoring revision that produced them.
const StrategyVersion = "1.0"

// IndicatorSnapshot carries the indicator values a signal was detected on.
// Pointers distinguish "not computed" from a legitimate zero.
type IndicatorSnapshot struct {
	EMA21 *float64 `json:"ema_21,omitempty"`
	EMA50 *float64 `json:"ema_50,omitempty"`
	RSI   *float64 `json:"rsi,omitempty"`
	MFI   *float64 `json:"mfi,omitempty"`
	OBV   *float64 `json:"obv,omitempty"`
}

// Signal represents a detected long entry in a stock.
type Signal struct {
	Symbol            string            `json:"symbol"`
	EntryPrice        float64           `json:"entry_price"`
	StopLoss          float64           `json:"stop_loss"`
	TakeProfit        float64           `json:"take_profit"`
	ConfirmationScore int               `json:"confirmation_score"`
	SignalTimestamp   time.Time         `json:"signal_timestamp"`
	DetectedDate      string            `json:"detected_date"`
	Indicators        IndicatorSnapshot `json:"indicators,omitempty"`
	StrategyVersion   string            `json:"strategy_version"`
	Notes             string            `json:"notes,omitempty"`
}

// Validate enforces the price ordering invariant and the score range.
func (s *Signal) Validate() error {
	if err := ValidateSymbol(s.Symbol); err != nil {
		return err
	}
	if err := ValidateEntry(s.EntryPrice, s.StopLoss, s.TakeProfit); err != nil {
		return err
	}
	if err := ValidateScore(s.ConfirmationScore); err != nil {
		return err
	}
	if _, err := ValidateDate(s.DetectedDate); err != nil {
		return err
	}
	return nil
}

// CacheKey returns the write-through cache key for this signal.
func (s *Signal) CacheKey() string {
	return fmt.Sprintf("signal:%s:%s:%d", s.Symbol, s.DetectedDate, s.SignalTimestamp.Unix())
}
