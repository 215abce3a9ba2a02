package indicator

import "math"

// SMA computes the simple moving average over a trailing window.
// Slots before index period-1 are undefined.
func SMA(prices []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, ErrInvalidPeriod
	}
	out := newSeries(len(prices))
	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out.set(i, sum/float64(period))
		}
	}
	return out, nil
}

// EMA computes the exponential moving average seeded with the simple average
// of the first period values at index period-1.
func EMA(prices []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, ErrInvalidPeriod
	}
	out := newSeries(len(prices))
	if len(prices) < period {
		return out, nil
	}
	var sum float64
	for _, p := range prices[:period] {
		sum += p
	}
	prev := sum / float64(period)
	out.set(period-1, prev)

	k := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		prev = prices[i]*k + prev*(1-k)
		out.set(i, prev)
	}
	return out, nil
}

// RSI computes the relative strength index with Wilder smoothing. The seed
// average gain/loss covers the first period deltas, so the first defined
// slot is index period.
func RSI(prices []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, ErrInvalidPeriod
	}
	out := newSeries(len(prices))
	if len(prices) < period+1 {
		return out, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out.set(period, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		gain := math.Max(d, 0)
		loss := -math.Min(d, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out.set(i, rsiValue(avgGain, avgLoss))
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MFI computes the money flow index over trailing windows of period typical
// price transitions. First defined slot is index period.
func MFI(high, low, close, volume []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, ErrInvalidPeriod
	}
	if len(high) != len(close) || len(low) != len(close) || len(volume) != len(close) {
		return Series{}, ErrLengthMismatch
	}
	out := newSeries(len(close))
	if len(close) < period+1 {
		return out, nil
	}

	typical := make([]float64, len(close))
	flow := make([]float64, len(close))
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
		flow[i] = typical[i] * volume[i]
	}

	for i := period; i < len(close); i++ {
		var pos, neg float64
		for j := i - period; j < i; j++ {
			if j == 0 {
				continue
			}
			switch {
			case typical[j] > typical[j-1]:
				pos += flow[j]
			case typical[j] < typical[j-1]:
				neg += flow[j]
			}
		}
		if neg == 0 {
			out.set(i, 100)
			continue
		}
		ratio := pos / neg
		out.set(i, 100-100/(1+ratio))
	}
	return out, nil
}

// OBV computes on-balance volume as a running sum starting at zero.
// Every slot is defined.
func OBV(close, volume []float64) (Series, error) {
	if len(close) != len(volume) {
		return Series{}, ErrLengthMismatch
	}
	out := newSeries(len(close))
	var cur float64
	for i := range close {
		if i > 0 {
			switch {
			case close[i] > close[i-1]:
				cur += volume[i]
			case close[i] < close[i-1]:
				cur -= volume[i]
			}
		}
		out.set(i, cur)
	}
	return out, nil
}

// VWAP computes the cumulative volume weighted average price from the series
// start. Slots where cumulative volume is still zero stay undefined.
func VWAP(high, low, close, volume []float64) (Series, error) {
	if len(high) != len(close) || len(low) != len(close) || len(volume) != len(close) {
		return Series{}, ErrLengthMismatch
	}
	out := newSeries(len(close))
	var cumFlow, cumVol float64
	for i := range close {
		typical := (high[i] + low[i] + close[i]) / 3
		cumFlow += typical * volume[i]
		cumVol += volume[i]
		if cumVol != 0 {
			out.set(i, cumFlow/cumVol)
		}
	}
	return out, nil
}

// ADLine computes the accumulation/distribution line. The close-location
// value is zero on bars where high equals low. Every slot is defined.
func ADLine(high, low, close, volume []float64) (Series, error) {
	if len(high) != len(close) || len(low) != len(close) || len(volume) != len(close) {
		return Series{}, ErrLengthMismatch
	}
	out := newSeries(len(close))
	var cum float64
	for i := range close {
		if high[i] != low[i] {
			clv := ((close[i] - low[i]) - (high[i] - close[i])) / (high[i] - low[i])
			cum += clv * volume[i]
		}
		out.set(i, cum)
	}
	return out, nil
}

// MACDResult bundles the three aligned MACD output series.
type MACDResult struct {
	MACD      Series
	Signal    Series
	Histogram Series
}

// MACD computes macd = EMA(fast) - EMA(slow), the signal line as an EMA over
// the contiguous defined subsequence of the macd line scattered back to the
// original indices, and histogram = macd - signal pointwise.
func MACD(prices []float64, fast, slow, signal int) (MACDResult, error) {
	emaFast, err := EMA(prices, fast)
	if err != nil {
		return MACDResult{}, err
	}
	emaSlow, err := EMA(prices, slow)
	if err != nil {
		return MACDResult{}, err
	}
	if signal <= 0 {
		return MACDResult{}, ErrInvalidPeriod
	}

	n := len(prices)
	macd := newSeries(n)
	indices := make([]int, 0, n)
	compact := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		f, okF := emaFast.At(i)
		s, okS := emaSlow.At(i)
		if !okF || !okS {
			continue
		}
		macd.set(i, f-s)
		indices = append(indices, i)
		compact = append(compact, f-s)
	}

	sig := newSeries(n)
	if len(compact) > 0 {
		compactEMA, err := EMA(compact, signal)
		if err != nil {
			return MACDResult{}, err
		}
		for j, idx := range indices {
			if v, ok := compactEMA.At(j); ok {
				sig.set(idx, v)
			}
		}
	}

	hist := newSeries(n)
	for i := 0; i < n; i++ {
		m, okM := macd.At(i)
		s, okS := sig.At(i)
		if okM && okS {
			hist.set(i, m-s)
		}
	}
	return MACDResult{MACD: macd, Signal: sig, Histogram: hist}, nil
}

// ATR computes the average true range with Wilder smoothing, seeded with the
// mean of the first period true ranges at index period-1. Returns an
// all-undefined series when fewer than period true ranges exist.
func ATR(high, low, close []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, ErrInvalidPeriod
	}
	if len(high) != len(close) || len(low) != len(close) {
		return Series{}, ErrLengthMismatch
	}
	out := newSeries(len(close))
	if len(close) < period {
		return out, nil
	}

	tr := make([]float64, len(close))
	for i := range close {
		if i == 0 {
			tr[i] = high[i] - low[i]
			continue
		}
		tr[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
	}

	var sum float64
	for _, v := range tr[:period] {
		sum += v
	}
	atr := sum / float64(period)
	out.set(period-1, atr)
	for i := period; i < len(tr); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out.set(i, atr)
	}
	return out, nil
}

// BollingerResult bundles the three aligned Bollinger band series.
type BollingerResult struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// BollingerBands computes the middle band as an SMA and the upper/lower bands
// at stdDev population standard deviations over the same trailing window.
func BollingerBands(prices []float64, period int, stdDev float64) (BollingerResult, error) {
	middle, err := SMA(prices, period)
	if err != nil {
		return BollingerResult{}, err
	}
	upper := newSeries(len(prices))
	lower := newSeries(len(prices))
	for i := period - 1; i < len(prices); i++ {
		m, ok := middle.At(i)
		if !ok {
			continue
		}
		var sq float64
		for _, p := range prices[i-period+1 : i+1] {
			d := p - m
			sq += d * d
		}
		std := math.Sqrt(sq / float64(period))
		upper.set(i, m+stdDev*std)
		lower.set(i, m-stdDev*std)
	}
	return BollingerResult{Upper: upper, Middle: middle, Lower: lower}, nil
}
