package stat

import (
	"math"
	"sort"
)

// LargestRemainder converts counts into integer percentages that sum to
// exactly 100. Each count gets the floor of its exact percentage; the
// shortfall to 100 is handed out one point at a time to the entries with the
// largest fractional remainder, ties broken by input order. Empty or
// zero-total input returns an all-zero slice.
func LargestRemainder(counts []int) []int {
	out := make([]int, len(counts))
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return out
	}

	remainders := make([]float64, len(counts))
	assigned := 0
	for i, c := range counts {
		exact := 100 * float64(c) / float64(total)
		out[i] = int(math.Floor(exact))
		remainders[i] = exact - math.Floor(exact)
		assigned += out[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	for i := 0; i < 100-assigned; i++ {
		out[order[i%len(order)]]++
	}
	return out
}
