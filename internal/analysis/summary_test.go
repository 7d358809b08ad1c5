package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabreport/domain/report"
	"tabreport/internal/testkit"
)

func TestSummaryUngroupedLayout(t *testing.T) {
	tbl := testkit.Tbl(testkit.NumCol("sales", 1, 2, 3, 4))
	s := &report.SummaryStep{
		BaseStep:       report.BaseStep{OutputName: "Sales_Summary"},
		NumericColumns: []string{"sales"},
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runSummary(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Column", "Metric", "Value"}, g.Columns)
	// Header row plus the eight metric rows.
	require.Equal(t, 9, g.RowCount())
	assert.Equal(t, "sales", g.Rows[0][0].Str())

	metrics := map[string]float64{}
	for _, row := range g.Rows[1:] {
		f, ok := row[2].Float()
		require.True(t, ok)
		metrics[row[1].Str()] = f
	}
	assert.Equal(t, 4.0, metrics["count"])
	assert.Equal(t, 2.5, metrics["mean"])
	assert.Equal(t, 1.29, metrics["std"], "sample standard deviation")
	assert.Equal(t, 1.0, metrics["min"])
	assert.Equal(t, 1.75, metrics["25%"])
	assert.Equal(t, 2.5, metrics["50%"])
	assert.Equal(t, 3.25, metrics["75%"])
	assert.Equal(t, 4.0, metrics["max"])
}

func TestSummaryGroupedFlatLayout(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.StrCol("region", "N", "N", "S", "S"),
		testkit.NumCol("sales", 10, 20, 30, 40),
	)
	s := &report.SummaryStep{
		BaseStep:       report.BaseStep{OutputName: "By_Region", GroupBy: []string{"region"}},
		NumericColumns: []string{"sales"},
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runSummary(rc, tbl, s)
	require.NoError(t, err)

	require.Equal(t, []string{"Group", "Column", "Metric", "Value"}, g.Columns)
	require.Equal(t, 16, g.RowCount())
	assert.Equal(t, "N", g.Rows[0][0].Str())
	assert.Equal(t, "count", g.Rows[0][2].Str())
	assert.Equal(t, "S", g.Rows[8][0].Str())
}

func TestSummaryErrorRows(t *testing.T) {
	tbl := testkit.Tbl(
		testkit.NumCol("sales", 1, 2),
		testkit.StrCol("notes", "x", "y"),
	)
	s := &report.SummaryStep{
		BaseStep:       report.BaseStep{OutputName: "Mixed"},
		NumericColumns: []string{"ghost", "notes", "sales"},
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runSummary(rc, tbl, s)
	require.NoError(t, err)

	// ghost -> not found; notes -> no numeric data; sales -> full metrics.
	var errorValues []string
	for _, row := range g.Rows {
		if row[1].Str() == "Error" {
			errorValues = append(errorValues, row[2].Str())
		}
	}
	assert.Equal(t, []string{"Column not found", "No numeric data for analysis"}, errorValues)
}

func TestSummaryAppliesColumnTransformations(t *testing.T) {
	tbl := testkit.Tbl(testkit.ValCol("v", testkit.Num(10), testkit.Miss(), testkit.Num(20)))
	s := &report.SummaryStep{
		BaseStep:       report.BaseStep{OutputName: "Filled"},
		NumericColumns: []string{"v"},
		ColumnTransformations: []report.ColumnTransformation{{
			ColumnName:      "v",
			Transformations: []report.Transformation{{Action: report.ActionFillNA}},
		}},
	}
	rc := &runContext{warnings: NewWarnings()}
	g, err := runSummary(rc, tbl, s)
	require.NoError(t, err)

	for _, row := range g.Rows {
		if row[1].Str() == "count" {
			f, _ := row[2].Float()
			assert.Equal(t, 3.0, f, "fill_na keeps the missing row in the sample")
		}
		if row[1].Str() == "min" {
			f, _ := row[2].Float()
			assert.Equal(t, 0.0, f)
		}
	}
}
