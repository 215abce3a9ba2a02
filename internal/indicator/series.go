package indicator

import "errors"

var (
	// ErrInvalidPeriod reports a non-positive indicator period.
	ErrInvalidPeriod = errors.New("indicator: period must be positive")

	// ErrLengthMismatch reports parallel input slices of different lengths.
	ErrLengthMismatch = errors.New("indicator: input lengths must match")
)

// Series is an indicator output aligned to its input: one slot per input bar,
// each slot either carrying a value or explicitly undefined. Warm-up slots
// before the first full window stay undefined so a computed zero is never
// confused with "not yet computable".
type Series struct {
	values  []float64
	defined []bool
}

func newSeries(n int) Series {
	return Series{
		values:  make([]float64, n),
		defined: make([]bool, n),
	}
}

// Len returns the number of slots (always the input length).
func (s Series) Len() int {
	return len(s.values)
}

// At returns the value at index i and whether it is defined.
// Out-of-range indices are undefined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.values) {
		return 0, false
	}
	return s.values[i], s.defined[i]
}

// Defined reports whether index i carries a value.
func (s Series) Defined(i int) bool {
	_, ok := s.At(i)
	return ok
}

// Last scans backwards for the most recent defined value and returns it with
// its index. ok is false when the series has no defined slot at all.
func (s Series) Last() (v float64, idx int, ok bool) {
	for i := len(s.values) - 1; i >= 0; i-- {
		if s.defined[i] {
			return s.values[i], i, true
		}
	}
	return 0, -1, false
}

// LastBefore scans backwards from index before-1 for a defined value.
func (s Series) LastBefore(before int) (v float64, idx int, ok bool) {
	if before > len(s.values) {
		before = len(s.values)
	}
	for i := before - 1; i >= 0; i-- {
		if s.defined[i] {
			return s.values[i], i, true
		}
	}
	return 0, -1, false
}

func (s *Series) set(i int, v float64) {
	s.values[i] = v
	s.defined[i] = true
}
