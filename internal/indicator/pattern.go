package indicator

// DetectBullishCandle reports whether a bullish reversal pattern (hammer or
// bullish engulfing) completes at idx. Requires idx >= 2 so the previous
// candle exists with context; anything else is false, never an error.
func DetectBullishCandle(open, high, low, close []float64, idx int) bool {
	if idx < 2 || idx >= len(close) {
		return false
	}
	if len(open) != len(close) || len(high) != len(close) || len(low) != len(close) {
		return false
	}

	o, h, l, c := open[idx], high[idx], low[idx], close[idx]
	body := c - o
	if body < 0 {
		body = -body
	}

	// Hammer: small body near the top of the range, long lower wick.
	if c > o && h-l > 0 {
		lowerWick := o - l
		upperWick := h - c
		if lowerWick > 2*body && upperWick < 0.1*body {
			return true
		}
	}

	// Bullish engulfing: bullish candle swallowing the prior bearish body.
	oPrev, cPrev := open[idx-1], close[idx-1]
	if c > o && cPrev < oPrev && c > oPrev && o < cPrev {
		return true
	}
	return false
}

// IsUptrend compares the mean of the most recent period prices against the
// mean of the period-length window ending lookback bars earlier. Series
// shorter than period+lookback are never an uptrend.
func IsUptrend(prices []float64, period, lookback int) bool {
	if period <= 0 || lookback <= 0 {
		return false
	}
	n := len(prices)
	if n < period+lookback {
		return false
	}
	var recent, older float64
	for _, p := range prices[n-period:] {
		recent += p
	}
	for _, p := range prices[n-period-lookback : n-lookback] {
		older += p
	}
	return recent > older
}
