package analysis

import (
	"github.com/montanaflynn/stats"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/stat"
)

// summaryMetrics is the fixed metric order of a summary block.
var summaryMetrics = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

type summaryRow struct {
	Group  string
	Column string
	Metric string
	Value  table.Value
}

// runSummary computes descriptive statistics per numeric column per group.
// Missing columns and empty-after-coercion conditions become explicit error
// rows scoped to that column; remaining columns keep processing.
func runSummary(rc *runContext, tbl *table.Table, s *report.SummaryStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}

	var rows []summaryRow
	for _, group := range groups {
		if group.Table.IsEmpty() {
			rc.warnings.Warnf("summary-empty-"+group.Label, "group %q is empty after filtering, skipping summary stats", group.Label)
			continue
		}
		for _, colName := range s.NumericColumns {
			if !group.Table.HasColumn(colName) {
				rc.warnings.Warnf("summary-missing-"+colName, "column %q not found, skipping for summary stats", colName)
				rows = append(rows, summaryRow{group.Label, colName, "Error", table.String("Column not found")})
				continue
			}
			col, err := group.Table.Column(colName)
			if err != nil {
				return nil, err
			}
			transformed, err := applyTransformations(col, report.TransformationsFor(s.ColumnTransformations, colName), nil)
			if err != nil {
				return nil, err
			}
			floats, _ := transformed.Floats()
			if len(floats) == 0 {
				rows = append(rows, summaryRow{group.Label, colName, "Error", table.String("No numeric data for analysis")})
				continue
			}
			rows = append(rows, describe(group.Label, colName, floats)...)
		}
	}

	grouped := len(s.GroupBy) > 0
	if len(rows) == 0 {
		if grouped {
			return report.NewGrid("Group", "Column", "Metric", "Value"), nil
		}
		return report.NewGrid("Column", "Metric", "Value"), nil
	}

	if grouped {
		g := report.NewGrid("Group", "Column", "Metric", "Value")
		for _, r := range rows {
			g.AddRow(table.String(r.Group), table.String(r.Column), table.String(r.Metric), r.Value)
		}
		return g, nil
	}

	// Ungrouped layout: one header row per column, then its metric rows.
	g := report.NewGrid("Column", "Metric", "Value")
	lastColumn := ""
	for _, r := range rows {
		if r.Column != lastColumn {
			g.AddStrings(r.Column, "", "")
			lastColumn = r.Column
		}
		g.AddRow(table.String(""), table.String(r.Metric), r.Value)
	}
	return g, nil
}

// describe computes the fixed metric set over a numeric sample, rounded to
// two decimals with count forced to an integer.
func describe(group, column string, floats []float64) []summaryRow {
	mean, _ := stats.Mean(floats)
	std, _ := stats.StandardDeviationSample(floats)
	min, _ := stats.Min(floats)
	max, _ := stats.Max(floats)

	values := map[string]float64{
		"count": float64(len(floats)),
		"mean":  stat.Round2(mean),
		"std":   stat.Round2(std),
		"min":   stat.Round2(min),
		"25%":   stat.Round2(stat.Quantile(floats, 0.25)),
		"50%":   stat.Round2(stat.Quantile(floats, 0.50)),
		"75%":   stat.Round2(stat.Quantile(floats, 0.75)),
		"max":   stat.Round2(max),
	}
	rows := make([]summaryRow, 0, len(summaryMetrics))
	for _, metric := range summaryMetrics {
		rows = append(rows, summaryRow{group, column, metric, table.Number(values[metric])})
	}
	return rows
}
