package render

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

func distBlock() report.Block {
	g := report.NewGrid("", "%", "Count")
	g.AddRow(table.String("a"), table.String("40%"), table.Number(4))
	g.AddRow(table.String("b"), table.String("60%"), table.Number(6))
	return report.NewBlock("Category_Distribution", g)
}

func corrBlock() report.Block {
	g := report.NewGrid("Group", "Column 1", "Column 2", "Correlation Type", "Correlation Value")
	g.AddRow(table.String("Full Dataset"), table.String("units"), table.String("sales"),
		table.String("Pearson"), table.Number(0.98765))
	return report.NewBlock("Correlation_Results", g)
}

func crosstabBlock() report.Block {
	g := report.NewGrid("Group", "cat", "N", "S", "All")
	g.AddRow(table.String("Full Dataset"), table.String("a"), table.Number(2), table.Number(1), table.Number(3))
	g.AddRow(table.String("Full Dataset"), table.String("All"), table.Number(2), table.Number(1), table.Number(3))
	return report.NewBlock("Crosstab_Cat_Region", g)
}

func TestSplitRoutesInsightBlocks(t *testing.T) {
	reportBlocks, insightBlocks := Split([]report.Block{distBlock(), corrBlock(), crosstabBlock()})
	require.Len(t, reportBlocks, 1)
	require.Len(t, insightBlocks, 2)
	assert.Equal(t, "Category_Distribution", reportBlocks[0].Title)
}

func TestReportDistributionLayout(t *testing.T) {
	out := Report([]report.Block{distBlock()})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "CATEGORY DISTRIBUTION - distribution,%,Count", lines[0])
	assert.Equal(t, "a,40%,4", lines[1])
	assert.Equal(t, "b,60%,6", lines[2])
}

func TestReportWideBlockKeepsTitleLine(t *testing.T) {
	g := report.NewGrid("Group", "Column", "Metric", "Value")
	g.AddRow(table.String("N"), table.String("sales"), table.String("mean"), table.Number(2.5))
	out := Report([]report.Block{report.NewBlock("Sales_Summary", g)})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, `"Sales_Summary"`, lines[0])
	assert.Equal(t, "Group,Column,Metric,Value", lines[1])
	assert.Equal(t, "N,sales,mean,2.5", lines[2])
}

func TestReportEmptyBlock(t *testing.T) {
	g := report.NewGrid("Group", "Column", "Metric", "Value")
	out := Report([]report.Block{report.NewBlock("Empty_Step", g)})
	assert.Contains(t, out, `"Empty_Step"`)
	assert.Contains(t, out, "(No data produced for this analysis)")
}

func TestReportDuplicatesLayout(t *testing.T) {
	g := report.NewGrid("Duplicates", "Instances")
	g.AddRow(table.String("a@x.com"), table.Number(3))
	out := Report([]report.Block{report.NewBlock("Duplicate_Emails", g)})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "DUPLICATE EMAILS - duplicate count,Duplicates,Instances", lines[0])
	assert.Equal(t, ",a@x.com,3", lines[1])
}

func TestInsightsSections(t *testing.T) {
	out := Insights([]report.Block{crosstabBlock(), corrBlock()})

	assert.Contains(t, out, "Crosstabs_Output")
	assert.Contains(t, out, "=== Crosstab_Cat_Region ===")
	assert.Contains(t, out, "Correlation_Results")
	assert.Contains(t, out, "Source Column,Target Column,Correlation")
	assert.Contains(t, out, "units,sales,0.9877", "correlation rounded to four decimals")

	// Margins are stripped from the crosstab section.
	assert.NotContains(t, out, "All")
	assert.NotContains(t, out, "Full Dataset")
}

func TestInsightsEmpty(t *testing.T) {
	assert.Equal(t, "", Insights(nil))
}

func TestZipName(t *testing.T) {
	assert.Equal(t, "report.zip", ZipName("report.csv"))
	assert.Equal(t, "report.zip", ZipName("report.zip"))
	assert.Equal(t, "generated_report.zip", ZipName(""))
	assert.Equal(t, "my_analysis.zip", ZipName("my_analysis"))
}

func TestBundle(t *testing.T) {
	archive, err := Bundle("report-data", "insight-data")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "report.csv", zr.File[0].Name)
	assert.Equal(t, "insights.csv", zr.File[1].Name)
}

func TestBundleOmitsEmptyArtifacts(t *testing.T) {
	archive, err := Bundle("report-data", "")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "report.csv", zr.File[0].Name)
}
