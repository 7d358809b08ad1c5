package stat

import (
	"math"
	"sort"
)

// Quantile computes the p-th quantile (0 <= p <= 1) using linear
// interpolation at position p*(n-1) over the sorted data. Returns NaN for
// empty input.
func Quantile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Round2 rounds to two decimal places, the presentation precision used
// across all report payloads.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
