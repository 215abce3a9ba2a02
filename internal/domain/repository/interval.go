package repository

// Interval represents candle resolution buckets for historical fetches.
type Interval string

const (
	IV15m Interval = "15m"
	IV1h  Interval = "1h"
	IV1d  Interval = "1d"
	IV1wk Interval = "1wk"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV15m, IV1h, IV1d, IV1wk:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default interval for scans.
func DefaultInterval() Interval { return IV1d }

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
