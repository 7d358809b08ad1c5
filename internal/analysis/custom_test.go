package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabreport/domain/report"
	"tabreport/internal/testkit"
)

func TestCustomDistributionPercentagesSumToHundred(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.StrCol("cat", "a", "a", "a", "a", "b", "b", "c", "d", "d", "d"),
	)
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Category_Distribution"},
		TargetColumns: []string{"cat"},
		Operation:     report.OpDistribution,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"", "%", "Count"}, g.Columns)
	require.Equal(t, 4, g.RowCount())

	// Rows ordered by descending count.
	assert.Equal(t, "a", g.Rows[0][0].Str())
	assert.Equal(t, "40%", g.Rows[0][1].Str())
	assert.Equal(t, "4", g.Rows[0][2].Str())
	assert.Equal(t, "d", g.Rows[1][0].Str())
	assert.Equal(t, "30%", g.Rows[1][1].Str())
	assert.Equal(t, "b", g.Rows[2][0].Str())
	assert.Equal(t, "20%", g.Rows[2][1].Str())
	assert.Equal(t, "c", g.Rows[3][0].Str())
	assert.Equal(t, "10%", g.Rows[3][1].Str())
}

func TestCustomAverageSimpleLayout(t *testing.T) {
	tbl := testkit.Tbl(testkit.NumCol("sales", 10, 20, 30))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Average_Sales"},
		TargetColumns: []string{"sales"},
		Operation:     report.OpAverage,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Average"}, g.Columns)
	require.Equal(t, 1, g.RowCount())
	f, ok := g.Rows[0][0].Float()
	require.True(t, ok)
	assert.Equal(t, 20.0, f)
}

func TestCustomSumIgnoresNonNumeric(t *testing.T) {
	tbl := testkit.Tbl(testkit.ValCol("v", testkit.Num(1), testkit.Str("x"), testkit.Num(2), testkit.Miss()))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Total"},
		TargetColumns: []string{"v"},
		Operation:     report.OpSum,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)
	f, _ := g.Rows[0][0].Float()
	assert.Equal(t, 3.0, f)
}

func TestCustomMedianEvenCount(t *testing.T) {
	tbl := testkit.Tbl(testkit.NumCol("v", 1, 2, 3, 4))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Median_V"},
		TargetColumns: []string{"v"},
		Operation:     report.OpMedian,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)
	f, _ := g.Rows[0][0].Float()
	assert.Equal(t, 2.5, f)
}

func TestCustomMedianDateFallback(t *testing.T) {
	tbl := testkit.Tbl(testkit.StrCol("d", "2024-01-01", "2024-01-03", "2024-01-05"))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Median_Date"},
		TargetColumns: []string{"d"},
		Operation:     report.OpMedian,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)
	assert.Equal(t, "01/03/2024", g.Rows[0][0].Str())
}

func TestCustomDuplicates(t *testing.T) {
	tbl := testkit.Tbl(testkit.StrCol("email", "a@x.com", "b@x.com", "a@x.com", "c@x.com", "a@x.com", "b@x.com"))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Duplicate_Emails"},
		TargetColumns: []string{"email"},
		Operation:     report.OpDuplicates,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Duplicates", "Instances"}, g.Columns)
	require.Equal(t, 2, g.RowCount())
	assert.Equal(t, "a@x.com", g.Rows[0][0].Str())
	assert.Equal(t, "3", g.Rows[0][1].Str())
	assert.Equal(t, "b@x.com", g.Rows[1][0].Str())
	assert.Equal(t, "2", g.Rows[1][1].Str())
}

func TestCustomUniqueValuesNumericSort(t *testing.T) {
	tbl := testkit.Tbl(testkit.StrCol("v", "10", "2", "10", "1"))
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Unique_V"},
		TargetColumns: []string{"v"},
		Operation:     report.OpUniqueList,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Unique Value"}, g.Columns)
	require.Equal(t, 3, g.RowCount())
	assert.Equal(t, "1", g.Rows[0][0].Str())
	assert.Equal(t, "2", g.Rows[1][0].Str())
	assert.Equal(t, "10", g.Rows[2][0].Str(), "numeric order, not lexical")
}

func TestCustomGroupedAverageLayout(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.StrCol("region", "North", "South", "North", "South"),
		testkit.NumCol("sales", 10, 20, 30, 40),
	)
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Avg_By_Region", GroupBy: []string{"region"}},
		TargetColumns: []string{"sales"},
		Operation:     report.OpAverage,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"region", "Average of sales"}, g.Columns)
	require.Equal(t, 2, g.RowCount())
	assert.Equal(t, "North", g.Rows[0][0].Str())
	f, _ := g.Rows[0][1].Float()
	assert.Equal(t, 20.0, f)
	assert.Equal(t, "South", g.Rows[1][0].Str())
	f, _ = g.Rows[1][1].Float()
	assert.Equal(t, 30.0, f)
}

func TestCustomColumnNotFoundAddsErrorColumn(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.StrCol("region", "North", "South"),
		testkit.NumCol("sales", 10, 20),
	)
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Avg"},
		TargetColumns: []string{"sales", "ghost"},
		Operation:     report.OpAverage,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Contains(t, g.Columns, "Error")
	require.Equal(t, 2, g.RowCount())
	assert.Equal(t, "Column not found", g.Rows[1][len(g.Rows[1])-1].Str())
}

func TestCustomEmptyAfterFilters(t *testing.T) {
	tbl := testkit.Tbl(testkit.NumCol("sales", 10, 20))
	s := &report.CustomStep{
		BaseStep: report.BaseStep{
			OutputName: "Avg",
			Filters: []report.Filter{{
				Column: "sales", Operator: report.OpGt,
				Value: report.ScalarValue(testkit.Num(1000)),
			}},
		},
		TargetColumns: []string{"sales"},
		Operation:     report.OpAverage,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Message"}, g.Columns)
	assert.Equal(t, "No data produced for this analysis", g.Rows[0][0].Str())
}

func TestCustomGroupedDistributionSections(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.StrCol("region", "N", "N", "S"),
		testkit.StrCol("cat", "a", "b", "a"),
	)
	s := &report.CustomStep{
		BaseStep:      report.BaseStep{OutputName: "Dist", GroupBy: []string{"region"}},
		TargetColumns: []string{"cat"},
		Operation:     report.OpDistribution,
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runCustom(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Group", "Column", "", "%", "Count"}, g.Columns)
	// Header row for group N, then two detail rows, then group S's section.
	assert.Equal(t, "N", g.Rows[0][0].Str())
	assert.Equal(t, "cat", g.Rows[0][1].Str())
	assert.Equal(t, "", g.Rows[1][0].Str())
	assert.Equal(t, "a", g.Rows[1][2].Str())
	assert.Equal(t, "50%", g.Rows[1][3].Str())
	assert.Equal(t, "S", g.Rows[3][0].Str())
}
