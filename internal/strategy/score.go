package strategy

import "StockScan/internal/domain/models"

// Flag weights for the confirmation score. EMATrend gates the entry decision
// but carries no point weight.
const (
	weightOBVBullish         = 3
	weightRSIBullish         = 2
	weightMFIBullish         = 2
	weightMarketStructure    = 1
	weightCandlestickBullish = 1
	weightNotFalling         = 2
	weightHTFUptrend         = 1

	// MaxScore is the highest attainable confirmation score.
	MaxScore = 12

	// EntryThreshold is the minimum score for a long entry.
	EntryThreshold = 6
)

// ComputeScore sums the weights of the truthy flags. Deterministic, total,
// always within [0, MaxScore].
func ComputeScore(f models.FeatureSet) int {
	score := 0
	if f.OBVBullish {
		score += weightOBVBullish
	}
	if f.RSIBullish {
		score += weightRSIBullish
	}
	if f.MFIBullish {
		score += weightMFIBullish
	}
	if f.MarketStructure {
		score += weightMarketStructure
	}
	if f.CandlestickBullish {
		score += weightCandlestickBullish
	}
	if f.NotFalling {
		score += weightNotFalling
	}
	if f.HTFUptrend {
		score += weightHTFUptrend
	}
	return score
}

// DetectLongSignal reports whether a long entry should trigger: the score
// reaches the threshold and both gating flags hold.
func DetectLongSignal(f models.FeatureSet) bool {
	return ComputeScore(f) >= EntryThreshold && f.NotFalling && f.EMATrend
}
