package strategy

import (
	"testing"

	"StockScan/internal/domain/models"
)

func featuresFromMask(mask int) models.FeatureSet {
	return models.FeatureSet{
		OBVBullish:         mask&1 != 0,
		RSIBullish:         mask&2 != 0,
		MFIBullish:         mask&4 != 0,
		MarketStructure:    mask&8 != 0,
		CandlestickBullish: mask&16 != 0,
		NotFalling:         mask&32 != 0,
		HTFUptrend:         mask&64 != 0,
		EMATrend:           mask&128 != 0,
	}
}

func TestComputeScoreWeights(t *testing.T) {
	f := models.FeatureSet{
		OBVBullish: true,
		RSIBullish: true,
		MFIBullish: true,
		NotFalling: true,
	}
	if got := ComputeScore(f); got != 9 {
		t.Fatalf("score = %d, want 9", got)
	}
}

func TestComputeScoreBounds(t *testing.T) {
	if got := ComputeScore(models.FeatureSet{}); got != 0 {
		t.Fatalf("empty feature set score = %d, want 0", got)
	}
	all := featuresFromMask(0xFF)
	if got := ComputeScore(all); got != MaxScore {
		t.Fatalf("all-true score = %d, want %d", got, MaxScore)
	}
	for mask := 0; mask < 256; mask++ {
		s := ComputeScore(featuresFromMask(mask))
		if s < 0 || s > MaxScore {
			t.Fatalf("mask %#x score %d outside [0,%d]", mask, s, MaxScore)
		}
	}
}

func TestComputeScoreDeterministic(t *testing.T) {
	f := featuresFromMask(0b1010101)
	first := ComputeScore(f)
	for i := 0; i < 10; i++ {
		if got := ComputeScore(f); got != first {
			t.Fatalf("score changed between calls: %d vs %d", first, got)
		}
	}
}

func TestDetectLongSignalEquivalence(t *testing.T) {
	for mask := 0; mask < 256; mask++ {
		f := featuresFromMask(mask)
		want := ComputeScore(f) >= EntryThreshold && f.NotFalling && f.EMATrend
		if got := DetectLongSignal(f); got != want {
			t.Fatalf("mask %#x: DetectLongSignal = %v, want %v", mask, got, want)
		}
	}
}

func TestDetectLongSignalGates(t *testing.T) {
	// High score but EMA trend missing must not trigger.
	f := models.FeatureSet{
		OBVBullish: true,
		RSIBullish: true,
		MFIBullish: true,
		NotFalling: true,
	}
	if DetectLongSignal(f) {
		t.Fatalf("signal triggered without ema trend gate")
	}
	f.EMATrend = true
	if !DetectLongSignal(f) {
		t.Fatalf("signal not triggered with score 9 and both gates")
	}
}
