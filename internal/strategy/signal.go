package strategy

import (
	"time"

	"StockScan/internal/domain/models"
	"StockScan/pkg/util"
)

// SignalParams controls stop/target construction for detected entries.
type SignalParams struct {
	StopATRMultiple   float64 // stop distance in ATRs
	TargetATRMultiple float64 // target distance in ATRs
	StopPct           float64 // fallback stop fraction when ATR is undefined
	TargetPct         float64 // fallback target fraction when ATR is undefined
}

// DefaultSignalParams returns the standard risk parameters.
func DefaultSignalParams() SignalParams {
	return SignalParams{
		StopATRMultiple:   1.5,
		TargetATRMultiple: 3.0,
		StopPct:           0.03,
		TargetPct:         0.06,
	}
}

// BuildSignal constructs a Signal for a confirmed entry at the last close.
// Stops and targets are ATR-derived when ATR is defined and the resulting
// stop stays positive, otherwise percentage-based.
func BuildSignal(symbol string, f models.FeatureSet, snap Snapshot, p SignalParams, now time.Time) *models.Signal {
	entry := snap.Close
	if entry <= 0 {
		return nil
	}
	stop := entry * (1 - p.StopPct)
	target := entry * (1 + p.TargetPct)
	if snap.ATR != nil {
		atrStop := entry - p.StopATRMultiple*(*snap.ATR)
		atrTarget := entry + p.TargetATRMultiple*(*snap.ATR)
		if atrStop > 0 && atrStop < entry && atrTarget > entry {
			stop = atrStop
			target = atrTarget
		}
	}

	return &models.Signal{
		Symbol:            symbol,
		EntryPrice:        entry,
		StopLoss:          stop,
		TakeProfit:        target,
		ConfirmationScore: ComputeScore(f),
		SignalTimestamp:   now,
		DetectedDate:      util.TradingDate(now),
		Indicators: models.IndicatorSnapshot{
			EMA21: snap.EMA21,
			EMA50: snap.EMA50,
			RSI:   snap.RSI,
			MFI:   snap.MFI,
			OBV:   snap.OBV,
		},
		StrategyVersion: models.StrategyVersion,
	}
}
