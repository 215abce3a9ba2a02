package indicator

import (
	"errors"
	"math"
	"testing"
)

func mustDefined(t *testing.T, s Series, i int) float64 {
	t.Helper()
	v, ok := s.At(i)
	if !ok {
		t.Fatalf("index %d expected defined", i)
	}
	return v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAWindow(t *testing.T) {
	s, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("sma: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("len = %d, want 5", s.Len())
	}
	if s.Defined(0) || s.Defined(1) {
		t.Fatalf("warm-up slots must be undefined")
	}
	if v := mustDefined(t, s, 2); !almostEqual(v, 2) {
		t.Fatalf("sma[2] = %v, want 2", v)
	}
	if v := mustDefined(t, s, 4); !almostEqual(v, 4) {
		t.Fatalf("sma[4] = %v, want 4", v)
	}
}

func TestEMASeedAndSmoothing(t *testing.T) {
	s, err := EMA([]float64{10, 11, 12, 13, 14, 15}, 3)
	if err != nil {
		t.Fatalf("ema: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("len = %d, want 6", s.Len())
	}
	if s.Defined(0) || s.Defined(1) {
		t.Fatalf("first two slots must be undefined")
	}
	// seed = (10+11+12)/3, then k = 0.5
	want := []float64{11, 12, 13, 14}
	for i, w := range want {
		if v := mustDefined(t, s, i+2); !almostEqual(v, w) {
			t.Fatalf("ema[%d] = %v, want %v", i+2, v, w)
		}
	}
}

func TestEMAShortSeriesAllUndefined(t *testing.T) {
	s, err := EMA([]float64{1, 2}, 5)
	if err != nil {
		t.Fatalf("ema: %v", err)
	}
	for i := 0; i < s.Len(); i++ {
		if s.Defined(i) {
			t.Fatalf("index %d defined on short series", i)
		}
	}
}

func TestEMAInvalidPeriod(t *testing.T) {
	if _, err := EMA([]float64{1, 2, 3}, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestRSIInsufficientBars(t *testing.T) {
	s, err := RSI([]float64{10, 10, 10, 10, 10}, 14)
	if err != nil {
		t.Fatalf("rsi: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("len = %d, want 5", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		if s.Defined(i) {
			t.Fatalf("index %d defined, want fully undefined", i)
		}
	}
}

func TestRSIFirstDefinedIndexAndBounds(t *testing.T) {
	prices := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10,
		45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03}
	s, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("rsi: %v", err)
	}
	for i := 0; i < 14; i++ {
		if s.Defined(i) {
			t.Fatalf("rsi[%d] defined inside warm-up", i)
		}
	}
	for i := 14; i < s.Len(); i++ {
		v := mustDefined(t, s, i)
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %v outside [0,100]", i, v)
		}
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = float64(100 + i)
	}
	s, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("rsi: %v", err)
	}
	v, _, ok := s.Last()
	if !ok || !almostEqual(v, 100) {
		t.Fatalf("rsi last = %v, want 100", v)
	}
}

func TestMFIBoundsAndWarmup(t *testing.T) {
	n := 30
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	vol := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 50 + 3*math.Sin(float64(i))
		high[i] = base + 1
		low[i] = base - 1
		close[i] = base
		vol[i] = 1000 + float64(i%7)*100
	}
	s, err := MFI(high, low, close, vol, 14)
	if err != nil {
		t.Fatalf("mfi: %v", err)
	}
	if s.Len() != n {
		t.Fatalf("len = %d, want %d", s.Len(), n)
	}
	for i := 0; i < 14; i++ {
		if s.Defined(i) {
			t.Fatalf("mfi[%d] defined inside warm-up", i)
		}
	}
	for i := 14; i < n; i++ {
		v := mustDefined(t, s, i)
		if v < 0 || v > 100 {
			t.Fatalf("mfi[%d] = %v outside [0,100]", i, v)
		}
	}
}

func TestMFILengthMismatch(t *testing.T) {
	_, err := MFI([]float64{1, 2}, []float64{1}, []float64{1, 2}, []float64{1, 2}, 14)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestOBVRunningSum(t *testing.T) {
	close := []float64{10, 11, 11, 10, 12}
	vol := []float64{100, 200, 300, 400, 500}
	s, err := OBV(close, vol)
	if err != nil {
		t.Fatalf("obv: %v", err)
	}
	want := []float64{0, 200, 200, -200, 300}
	for i, w := range want {
		if v := mustDefined(t, s, i); !almostEqual(v, w) {
			t.Fatalf("obv[%d] = %v, want %v", i, v, w)
		}
	}
}

func TestVWAPUndefinedOnZeroVolume(t *testing.T) {
	high := []float64{10, 11, 12}
	low := []float64{8, 9, 10}
	close := []float64{9, 10, 11}
	vol := []float64{0, 0, 100}
	s, err := VWAP(high, low, close, vol)
	if err != nil {
		t.Fatalf("vwap: %v", err)
	}
	if s.Defined(0) || s.Defined(1) {
		t.Fatalf("zero cumulative volume must be undefined")
	}
	if v := mustDefined(t, s, 2); !almostEqual(v, 11) {
		t.Fatalf("vwap[2] = %v, want 11", v)
	}
}

func TestADLineFlatBar(t *testing.T) {
	high := []float64{10, 10}
	low := []float64{10, 8}
	close := []float64{10, 9}
	vol := []float64{100, 100}
	s, err := ADLine(high, low, close, vol)
	if err != nil {
		t.Fatalf("adline: %v", err)
	}
	if v := mustDefined(t, s, 0); !almostEqual(v, 0) {
		t.Fatalf("adline[0] = %v, want 0 on flat bar", v)
	}
	// clv = ((9-8)-(10-9))/(10-8) = 0
	if v := mustDefined(t, s, 1); !almostEqual(v, 0) {
		t.Fatalf("adline[1] = %v, want 0", v)
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	prices := make([]float64, 80)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	res, err := MACD(prices, 12, 26, 9)
	if err != nil {
		t.Fatalf("macd: %v", err)
	}
	if res.MACD.Len() != len(prices) || res.Signal.Len() != len(prices) || res.Histogram.Len() != len(prices) {
		t.Fatalf("macd output lengths must match input")
	}
	var checked int
	for i := 0; i < len(prices); i++ {
		m, okM := res.MACD.At(i)
		s, okS := res.Signal.At(i)
		h, okH := res.Histogram.At(i)
		if okM && okS {
			if !okH {
				t.Fatalf("histogram[%d] undefined with both operands defined", i)
			}
			if h != m-s {
				t.Fatalf("histogram[%d] = %v, want exactly %v", i, h, m-s)
			}
			checked++
		} else if okH {
			t.Fatalf("histogram[%d] defined with an undefined operand", i)
		}
	}
	if checked == 0 {
		t.Fatalf("no defined histogram slots checked")
	}
}

func TestATRSeedAndShortSeries(t *testing.T) {
	high := []float64{12, 13, 14, 15}
	low := []float64{10, 11, 12, 13}
	close := []float64{11, 12, 13, 14}

	s, err := ATR(high, low, close, 3)
	if err != nil {
		t.Fatalf("atr: %v", err)
	}
	if s.Defined(0) || s.Defined(1) {
		t.Fatalf("atr warm-up must be undefined")
	}
	// tr = [2, 2, 2, 2]; seed = 2 at index 2, stays 2.
	if v := mustDefined(t, s, 2); !almostEqual(v, 2) {
		t.Fatalf("atr[2] = %v, want 2", v)
	}
	if v := mustDefined(t, s, 3); !almostEqual(v, 2) {
		t.Fatalf("atr[3] = %v, want 2", v)
	}

	short, err := ATR(high[:2], low[:2], close[:2], 3)
	if err != nil {
		t.Fatalf("atr short: %v", err)
	}
	for i := 0; i < short.Len(); i++ {
		if short.Defined(i) {
			t.Fatalf("short atr index %d defined", i)
		}
	}
}

func TestBollingerBands(t *testing.T) {
	prices := []float64{2, 2, 2, 4, 4, 4}
	res, err := BollingerBands(prices, 4, 2)
	if err != nil {
		t.Fatalf("bollinger: %v", err)
	}
	for i := 0; i < 3; i++ {
		if res.Upper.Defined(i) || res.Middle.Defined(i) || res.Lower.Defined(i) {
			t.Fatalf("bollinger[%d] defined inside warm-up", i)
		}
	}
	m := mustDefined(t, res.Middle, 3)
	if !almostEqual(m, 2.5) {
		t.Fatalf("middle[3] = %v, want 2.5", m)
	}
	// population std of [2,2,2,4] around 2.5 is sqrt(3)/2
	std := math.Sqrt(3) / 2
	if u := mustDefined(t, res.Upper, 3); !almostEqual(u, 2.5+2*std) {
		t.Fatalf("upper[3] = %v, want %v", u, 2.5+2*std)
	}
	if l := mustDefined(t, res.Lower, 3); !almostEqual(l, 2.5-2*std) {
		t.Fatalf("lower[3] = %v, want %v", l, 2.5-2*std)
	}
}

func TestOutputLengthsMatchInput(t *testing.T) {
	n := 40
	prices := make([]float64, n)
	vol := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i%9)
		vol[i] = 1000
	}

	checks := map[string]Series{}
	if s, err := SMA(prices, 10); err == nil {
		checks["sma"] = s
	}
	if s, err := EMA(prices, 10); err == nil {
		checks["ema"] = s
	}
	if s, err := RSI(prices, 14); err == nil {
		checks["rsi"] = s
	}
	if s, err := OBV(prices, vol); err == nil {
		checks["obv"] = s
	}
	if s, err := VWAP(prices, prices, prices, vol); err == nil {
		checks["vwap"] = s
	}
	if s, err := ADLine(prices, prices, prices, vol); err == nil {
		checks["adline"] = s
	}
	if s, err := ATR(prices, prices, prices, 14); err == nil {
		checks["atr"] = s
	}
	for name, s := range checks {
		if s.Len() != n {
			t.Fatalf("%s length = %d, want %d", name, s.Len(), n)
		}
	}
}
