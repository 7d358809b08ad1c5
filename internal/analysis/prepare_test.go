package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/testkit"
)

func filterTable() *table.Table {
	return testkit.Tbl(
		testkit.ValCol("region",
			testkit.Str("North"), testkit.Str("South"), testkit.Miss(), testkit.Str("North")),
		testkit.ValCol("sales",
			testkit.Num(100), testkit.Num(200), testkit.Num(300), testkit.Miss()),
	)
}

func eqFilter(column string, v table.Value) report.Filter {
	return report.Filter{Column: column, Operator: report.OpEq, Value: report.ScalarValue(v)}
}

func TestPrepareGroupsNoGrouping(t *testing.T) {
	groups, err := prepareGroups(filterTable(), report.BaseStep{OutputName: "x"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, FullDatasetLabel, groups[0].Label)
	assert.Equal(t, 4, groups[0].Table.RowCount())
}

func TestPrepareGroupsFiltersANDCumulatively(t *testing.T) {
	base := report.BaseStep{
		OutputName: "x",
		Filters: []report.Filter{
			eqFilter("region", testkit.Str("North")),
			{Column: "sales", Operator: report.OpGt, Value: report.ScalarValue(testkit.Num(50))},
		},
	}
	groups, err := prepareGroups(filterTable(), base)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	// Row 0 is North with sales 100; row 3 is North but sales is missing.
	assert.Equal(t, 1, groups[0].Table.RowCount())
}

func TestMatchFilterMissingSemantics(t *testing.T) {
	miss := testkit.Miss()
	five := testkit.Num(5)

	assert.False(t, matchFilter(miss, eqFilter("c", five)))
	assert.True(t, matchFilter(miss, report.Filter{Operator: report.OpNeq, Value: report.ScalarValue(five)}))
	assert.False(t, matchFilter(miss, report.Filter{Operator: report.OpGt, Value: report.ScalarValue(five)}))
	assert.False(t, matchFilter(miss, report.Filter{Operator: report.OpLt, Value: report.ScalarValue(five)}))
	assert.False(t, matchFilter(miss, report.Filter{Operator: report.OpIn, Value: report.ListValue(five)}))
	assert.True(t, matchFilter(miss, report.Filter{Operator: report.OpNotIn, Value: report.ListValue(five)}))
	assert.False(t, matchFilter(miss, report.Filter{Operator: report.OpContains, Value: report.ScalarValue(testkit.Str("x"))}))
}

func TestMatchFilterNumericAwareComparison(t *testing.T) {
	// String "9" against numeric 10 compares numerically, not lexically.
	f := report.Filter{Operator: report.OpLt, Value: report.ScalarValue(testkit.Num(10))}
	assert.True(t, matchFilter(testkit.Str("9"), f))

	f = report.Filter{Operator: report.OpGt, Value: report.ScalarValue(testkit.Num(10))}
	assert.False(t, matchFilter(testkit.Str("9"), f))
	assert.True(t, matchFilter(testkit.Num(11), f))
}

func TestMatchFilterContains(t *testing.T) {
	f := report.Filter{Operator: report.OpContains, Value: report.ScalarValue(testkit.Str("orth"))}
	assert.True(t, matchFilter(testkit.Str("North"), f))
	assert.False(t, matchFilter(testkit.Str("South"), f))
}

func TestMatchFilterInNotIn(t *testing.T) {
	in := report.Filter{Operator: report.OpIn, Value: report.ListValue(testkit.Str("a"), testkit.Num(2))}
	assert.True(t, matchFilter(testkit.Str("a"), in))
	assert.True(t, matchFilter(testkit.Num(2), in))
	assert.True(t, matchFilter(testkit.Str("2"), in), "numeric coercion applies inside lists")
	assert.False(t, matchFilter(testkit.Str("b"), in))

	notIn := report.Filter{Operator: report.OpNotIn, Value: report.ListValue(testkit.Str("a"))}
	assert.False(t, matchFilter(testkit.Str("a"), notIn))
	assert.True(t, matchFilter(testkit.Str("b"), notIn))
}

func TestPrepareGroupsAmbiguousFilterColumn(t *testing.T) {
	dup := table.MustNew(
		table.NewSeries("a", []table.Value{testkit.Num(1)}),
		table.NewSeries("a", []table.Value{testkit.Num(2)}),
	)
	base := report.BaseStep{OutputName: "x", Filters: []report.Filter{eqFilter("a", testkit.Num(1))}}
	_, err := prepareGroups(dup, base)
	require.Error(t, err)
}

func TestPrepareGroupsMissingKeyOwnGroup(t *testing.T) {
	base := report.BaseStep{OutputName: "x", GroupBy: []string{"region"}}
	groups, err := prepareGroups(filterTable(), base)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "North", groups[0].Label)
	assert.Equal(t, "South", groups[1].Label)
	assert.Equal(t, "NaN", groups[2].Label)
}
