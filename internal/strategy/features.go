package strategy

import (
	"StockScan/internal/domain/models"
	"StockScan/internal/indicator"
)

// Default periods for the confirmation features.
const (
	rsiPeriod      = 14
	mfiPeriod      = 14
	emaFastPeriod  = 12
	emaSlowPeriod  = 26
	trendPeriod    = 50
	trendLookback  = 10
	structureBars  = 10
	notFallingLag  = 3
	snapshotEMA21  = 21
	snapshotEMA50  = 50
)

// Snapshot carries the most recent defined indicator values alongside the
// feature flags, for scan results and the signal indicator snapshot.
type Snapshot struct {
	Close float64
	RSI   *float64
	MFI   *float64
	EMA21 *float64
	EMA50 *float64
	OBV   *float64
	ATR   *float64
}

// BuildFeatures reduces a price series to the fixed confirmation flags.
// Each flag reads the most recent defined value of its indicator; an
// indicator with no defined value yields false for its flag rather than
// failing the whole computation.
func BuildFeatures(s *models.PriceSeries) (models.FeatureSet, Snapshot) {
	var f models.FeatureSet
	n := s.Len()
	snap := Snapshot{}
	if n == 0 {
		f.NotFalling = true
		return f, snap
	}
	snap.Close = s.Close[n-1]

	if obv, err := indicator.OBV(s.Close, s.Volume); err == nil {
		if last, idx, ok := obv.Last(); ok {
			snap.OBV = &last
			if prev, _, okPrev := obv.LastBefore(idx); okPrev {
				f.OBVBullish = last > prev
			}
		}
	}

	if rsi, err := indicator.RSI(s.Close, rsiPeriod); err == nil {
		if last, _, ok := rsi.Last(); ok {
			snap.RSI = &last
			f.RSIBullish = last < 40
		}
	}

	if mfi, err := indicator.MFI(s.High, s.Low, s.Close, s.Volume, mfiPeriod); err == nil {
		if last, _, ok := mfi.Last(); ok {
			snap.MFI = &last
			f.MFIBullish = last < 40
		}
	}

	// Market structure: last close above the mean of the trailing closes.
	window := structureBars
	if n < window {
		window = n
	}
	var sum float64
	for _, c := range s.Close[n-window:] {
		sum += c
	}
	f.MarketStructure = s.Close[n-1] > sum/float64(window)

	f.CandlestickBullish = indicator.DetectBullishCandle(s.Open, s.High, s.Low, s.Close, n-1)

	if n < notFallingLag+1 {
		f.NotFalling = true
	} else {
		f.NotFalling = s.Close[n-1] >= s.Close[n-1-notFallingLag]
	}

	f.HTFUptrend = indicator.IsUptrend(s.Close, trendPeriod, trendLookback)

	emaFast, errFast := indicator.EMA(s.Close, emaFastPeriod)
	emaSlow, errSlow := indicator.EMA(s.Close, emaSlowPeriod)
	if errFast == nil && errSlow == nil {
		fv, _, okF := emaFast.Last()
		sv, _, okS := emaSlow.Last()
		if okF && okS {
			f.EMATrend = fv > sv
		}
	}

	if ema21, err := indicator.EMA(s.Close, snapshotEMA21); err == nil {
		if v, _, ok := ema21.Last(); ok {
			snap.EMA21 = &v
		}
	}
	if ema50, err := indicator.EMA(s.Close, snapshotEMA50); err == nil {
		if v, _, ok := ema50.Last(); ok {
			snap.EMA50 = &v
		}
	}
	if atr, err := indicator.ATR(s.High, s.Low, s.Close, rsiPeriod); err == nil {
		if v, _, ok := atr.Last(); ok {
			snap.ATR = &v
		}
	}

	return f, snap
}
