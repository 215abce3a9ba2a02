package models

import "errors"

// MinBars is the minimum number of closes a scan accepts.
const MinBars = 10

var (
	// ErrInsufficientData reports a series too short to scan.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrRaggedSeries reports OHLCV arrays of unequal length.
	ErrRaggedSeries = errors.New("ohlcv arrays must have equal length")
)

// PriceSeries holds parallel OHLCV arrays, index 0 = oldest bar, strictly
// ascending time. Treated as immutable once fetched.
type PriceSeries struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	return len(s.Close)
}

// Validate checks array alignment and the minimum bar count.
func (s *PriceSeries) Validate() error {
	n := len(s.Close)
	if len(s.Open) != n || len(s.High) != n || len(s.Low) != n || len(s.Volume) != n {
		return ErrRaggedSeries
	}
	if n < MinBars {
		return ErrInsufficientData
	}
	return nil
}
