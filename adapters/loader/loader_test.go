package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabreport/internal/testkit"
)

func TestLoadDispatchesOnExtension(t *testing.T) {
	_, err := Load(strings.NewReader("a,b\n1,2\n"), "data.txt")
	assert.Error(t, err, "unsupported extension")

	tbl, err := Load(strings.NewReader("a,b\n1,2\n"), "Data.CSV")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

func TestLoadCSVSniffsDelimiter(t *testing.T) {
	cases := map[string]string{
		"comma":     "a,b\n1,2\n",
		"semicolon": "a;b\n1;2\n",
		"tab":       "a\tb\n1\t2\n",
		"pipe":      "a|b\n1|2\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := LoadCSV(strings.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
			assert.Equal(t, 1, tbl.RowCount())
		})
	}
}

func TestLoadCSVEmptyFile(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = LoadCSV(strings.NewReader("header_only\n"))
	assert.Error(t, err, "a header with no data rows is empty")
}

func TestHeaderNormalization(t *testing.T) {
	cases := map[string]string{
		"Sales Amount":   "sales_amount",
		"  Total ($)  ":  "total",
		"Q1/Q2 Split":    "q1_q2_split",
		"ALREADY_SNAKE":  "already_snake",
		"Mixed  Spaces ": "mixed_spaces",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeHeader(in))
	}
}

func TestHeaderDeduplication(t *testing.T) {
	got := normalizeHeaders([]string{"Sales", "sales", "SALES", ""})
	assert.Equal(t, "sales", got[0])
	assert.NotEqual(t, got[0], got[1])
	assert.NotEqual(t, got[1], got[2])
	assert.Equal(t, "column_3", got[3])

	seen := map[string]bool{}
	for _, name := range got {
		assert.False(t, seen[name], "headers must be unique after normalization")
		seen[name] = true
	}
}

func TestNATokensBecomeMissing(t *testing.T) {
	data := "v\n1\nN/A\nnull\n#N/A\n\"\"\nNaN\n2\n"
	tbl, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)

	col, err := tbl.Column("v")
	require.NoError(t, err)
	assert.Equal(t, 7, col.Len())
	assert.Equal(t, 2, col.NonMissing())
}

func TestNumericColumnInference(t *testing.T) {
	data := "num,mixed,text\n1,1,a\n2.5,x,b\n,3,c\n"
	tbl, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)

	num, err := tbl.Column("num")
	require.NoError(t, err)
	f, ok := num.At(0).Float()
	require.True(t, ok, "all-numeric column becomes typed numbers")
	assert.Equal(t, 1.0, f)
	assert.True(t, num.At(2).IsMissing(), "missing cells do not block inference")

	mixed, err := tbl.Column("mixed")
	require.NoError(t, err)
	_, ok = mixed.At(0).Float()
	assert.False(t, ok, "one non-numeric cell keeps the column as strings")

	text, err := tbl.Column("text")
	require.NoError(t, err)
	assert.Equal(t, "a", text.At(0).Str())
}

func TestRaggedRowsPadded(t *testing.T) {
	data := "a,b,c\n1,2\n4,5,6\n"
	tbl, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)

	c, err := tbl.Column("c")
	require.NoError(t, err)
	assert.True(t, c.At(0).IsMissing(), "short rows pad with missing")
	f, _ := c.At(1).Float()
	assert.Equal(t, 6.0, f)
}

func TestGeneratedSalesRoundTrip(t *testing.T) {
	src := testkit.GenerateSales(testkit.DefaultSalesConfig())
	tbl, err := LoadCSV(strings.NewReader(testkit.CSV(src)))
	require.NoError(t, err)

	assert.Equal(t, src.ColumnNames(), tbl.ColumnNames())
	assert.Equal(t, src.RowCount(), tbl.RowCount())

	sales, err := tbl.Column("sales")
	require.NoError(t, err)
	_, ok := sales.At(0).Float()
	assert.True(t, ok, "sales re-infers as numeric")
}

func TestCellsTrimmed(t *testing.T) {
	data := "name\n  padded  \n"
	tbl, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)
	col, err := tbl.Column("name")
	require.NoError(t, err)
	assert.Equal(t, "padded", col.At(0).Str())
}
