package stat

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Pearson computes the Pearson correlation coefficient between two aligned
// samples. Returns NaN when the inputs are degenerate.
func Pearson(x, y []float64) float64 {
	r, err := stats.Pearson(x, y)
	if err != nil {
		return math.NaN()
	}
	return r
}

// contingency builds an observed-frequency table from two aligned label
// slices, with deterministic (sorted) category order.
func contingency(x, y []string) (obs [][]float64, n float64) {
	rowIdx := labelIndex(x)
	colIdx := labelIndex(y)
	obs = make([][]float64, len(rowIdx))
	for i := range obs {
		obs[i] = make([]float64, len(colIdx))
	}
	for i := range x {
		obs[rowIdx[x[i]]][colIdx[y[i]]]++
		n++
	}
	return obs, n
}

func labelIndex(labels []string) map[string]int {
	distinct := make([]string, 0)
	seen := map[string]bool{}
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			distinct = append(distinct, l)
		}
	}
	sort.Strings(distinct)
	idx := make(map[string]int, len(distinct))
	for i, l := range distinct {
		idx[l] = i
	}
	return idx
}

// chiSquare computes the chi-square statistic of an observed table, without
// Yates continuity correction.
func chiSquare(obs [][]float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	rows := len(obs)
	cols := len(obs[0])
	rowSum := make([]float64, rows)
	colSum := make([]float64, cols)
	for i := range obs {
		for j, o := range obs[i] {
			rowSum[i] += o
			colSum[j] += o
		}
	}
	chi2 := 0.0
	for i := range obs {
		for j, o := range obs[i] {
			expected := rowSum[i] * colSum[j] / n
			if expected == 0 {
				continue
			}
			d := o - expected
			chi2 += d * d / expected
		}
	}
	return chi2
}

// CramersV measures association between two categorical samples on a 0..1
// scale, from the uncorrected chi-square statistic:
// sqrt(chi2/n / min(rows-1, cols-1)).
func CramersV(x, y []string) float64 {
	obs, n := contingency(x, y)
	if n == 0 || len(obs) < 2 || len(obs[0]) < 2 {
		return 0
	}
	chi2 := chiSquare(obs, n)
	phi2 := chi2 / n
	minDim := math.Min(float64(len(obs)-1), float64(len(obs[0])-1))
	return math.Sqrt(phi2 / minDim)
}

// CorrelationRatio (eta) measures how much of a numeric variable's variance
// is explained by a categorical grouping: sqrt(SS_between / SS_total).
func CorrelationRatio(categories []string, values []float64) float64 {
	if len(categories) != len(values) || len(values) == 0 {
		return 0
	}
	groupSum := map[string]float64{}
	groupN := map[string]float64{}
	total := 0.0
	for i, c := range categories {
		groupSum[c] += values[i]
		groupN[c]++
		total += values[i]
	}
	grand := total / float64(len(values))

	ssTotal := 0.0
	for _, v := range values {
		d := v - grand
		ssTotal += d * d
	}
	if ssTotal == 0 {
		return 0
	}
	ssBetween := 0.0
	for c, n := range groupN {
		d := groupSum[c]/n - grand
		ssBetween += n * d * d
	}
	return math.Sqrt(ssBetween / ssTotal)
}
