package analysis

import (
	"math"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/stat"
)

// runCorrelation scores every unordered pair of the requested columns per
// group: Pearson for numeric pairs, Cramér's V for categorical pairs, the
// correlation ratio (eta) for mixed pairs. Pairs are aligned on their shared
// non-missing rows; results below the threshold are dropped.
func runCorrelation(rc *runContext, tbl *table.Table, s *report.CorrelationStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}

	g := report.NewGrid("Group", "Column 1", "Column 2", "Correlation Type", "Correlation Value")
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}
		for i := 0; i < len(s.Columns); i++ {
			for j := i + 1; j < len(s.Columns); j++ {
				name1, name2 := s.Columns[i], s.Columns[j]
				if !group.Table.HasColumn(name1) || !group.Table.HasColumn(name2) {
					continue
				}
				col1, err := group.Table.Column(name1)
				if err != nil {
					return nil, err
				}
				col2, err := group.Table.Column(name2)
				if err != nil {
					return nil, err
				}
				aligned1, aligned2 := alignNonMissing(col1, col2)
				if aligned1.Len() == 0 {
					continue
				}

				corrType, corrVal := scorePair(aligned1, aligned2)
				if corrType == "" || math.IsNaN(corrVal) || math.Abs(corrVal) < s.Threshold {
					continue
				}
				g.AddRow(
					table.String(group.Label),
					table.String(name1),
					table.String(name2),
					table.String(corrType),
					table.Number(corrVal),
				)
			}
		}
	}
	return g, nil
}

// scorePair picks the association measure from the pair's dtypes and
// computes it. Returns an empty type when the pair cannot be scored.
func scorePair(a, b *table.Series) (string, float64) {
	aCat, bCat := a.Categorical(), b.Categorical()
	switch {
	case !aCat && !bCat:
		x, y := pairedFloats(a, b)
		return "Pearson", stat.Pearson(x, y)
	case aCat && bCat:
		return "Cramér's V", stat.CramersV(seriesLabels(a), seriesLabels(b))
	case aCat:
		return "Correlation ratio (eta)", etaPair(a, b)
	default:
		return "Correlation ratio (eta)", etaPair(b, a)
	}
}

// etaPair computes the correlation ratio of a categorical/numeric pair,
// dropping rows whose numeric side does not coerce.
func etaPair(cat, num *table.Series) float64 {
	var categories []string
	var values []float64
	for i := 0; i < num.Len(); i++ {
		if f, ok := num.At(i).AsFloat(); ok {
			categories = append(categories, cat.At(i).Str())
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.CorrelationRatio(categories, values)
}

// alignNonMissing inner-joins two series on the original row indices where
// both sides are non-missing, preserving row order.
func alignNonMissing(a, b *table.Series) (*table.Series, *table.Series) {
	bAt := map[int]table.Value{}
	for i := 0; i < b.Len(); i++ {
		if v := b.At(i); !v.IsMissing() {
			bAt[b.RowIndex(i)] = v
		}
	}
	var aVals, bVals []table.Value
	var index []int
	for i := 0; i < a.Len(); i++ {
		v := a.At(i)
		if v.IsMissing() {
			continue
		}
		if bv, ok := bAt[a.RowIndex(i)]; ok {
			aVals = append(aVals, v)
			bVals = append(bVals, bv)
			index = append(index, a.RowIndex(i))
		}
	}
	return table.NewSeriesWithIndex(a.Name, aVals, index),
		table.NewSeriesWithIndex(b.Name, bVals, index)
}

// pairedFloats coerces both sides to numbers, keeping only rows where both
// coerce so the samples stay aligned.
func pairedFloats(a, b *table.Series) ([]float64, []float64) {
	var x, y []float64
	for i := 0; i < a.Len(); i++ {
		fa, okA := a.At(i).AsFloat()
		fb, okB := b.At(i).AsFloat()
		if okA && okB {
			x = append(x, fa)
			y = append(y, fb)
		}
	}
	return x, y
}

func seriesLabels(s *table.Series) []string {
	labels := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		labels[i] = s.At(i).Str()
	}
	return labels
}
