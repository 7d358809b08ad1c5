package analysis

import (
	"strings"

	"github.com/montanaflynn/stats"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/stat"
)

type outlierRecord struct {
	Group    string
	Column   string
	RowIndex table.Value // original row index; missing for sentinel rows
	Value    table.Value // the outlier value, or a sentinel message
	Method   string
}

// runOutliers flags values strictly outside the configured bounds per target
// column per group. Sentinel rows distinguish "column not found", "no
// numeric data" and "no outliers detected" from one another.
func runOutliers(rc *runContext, tbl *table.Table, s *report.OutlierStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(string(s.Method))

	var records []outlierRecord
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}
		for _, colName := range s.TargetColumns {
			if !group.Table.HasColumn(colName) {
				records = append(records, outlierRecord{group.Label, colName, table.Missing(), table.String("Column not found"), method})
				continue
			}
			col, err := group.Table.Column(colName)
			if err != nil {
				return nil, err
			}
			floats, rowIndex := col.Floats()
			if len(floats) == 0 {
				records = append(records, outlierRecord{group.Label, colName, table.Missing(), table.String("No numeric data for analysis"), method})
				continue
			}

			lower, upper := outlierBounds(floats, s.Method, s.Threshold)
			found := false
			for i, v := range floats {
				if v < lower || v > upper {
					found = true
					records = append(records, outlierRecord{
						group.Label, colName,
						table.Number(float64(rowIndex[i])), table.Number(v), method,
					})
				}
			}
			if !found {
				records = append(records, outlierRecord{group.Label, colName, table.Missing(), table.String("No outliers detected"), method})
			}
		}
	}

	grouped := len(s.GroupBy) > 0
	if len(records) == 0 {
		if grouped {
			return report.NewGrid("Group", "Column", "Original Row Index", "Outlier Value", "Method"), nil
		}
		return report.NewGrid("Column", "Original Row Index", "Outlier Value", "Method"), nil
	}

	if grouped {
		g := report.NewGrid("Group", "Column", "Original Row Index", "Outlier Value", "Method")
		for _, r := range records {
			g.AddRow(table.String(r.Group), table.String(r.Column), r.RowIndex, r.Value, table.String(r.Method))
		}
		return g, nil
	}

	// Ungrouped layout: one header row per column, then its records.
	g := report.NewGrid("Column", "Original Row Index", "Outlier Value", "Method")
	lastColumn := ""
	for _, r := range records {
		if r.Column != lastColumn {
			g.AddRow(table.String(r.Column), table.Missing(), table.Missing(), table.String(""))
			lastColumn = r.Column
		}
		g.AddRow(table.String(""), r.RowIndex, r.Value, table.String(r.Method))
	}
	return g, nil
}

// outlierBounds computes the inclusive keep-interval for one sample.
func outlierBounds(floats []float64, method report.OutlierMethod, threshold float64) (lower, upper float64) {
	if method == report.MethodZScore {
		mean, _ := stats.Mean(floats)
		std, _ := stats.StandardDeviationSample(floats)
		return mean - threshold*std, mean + threshold*std
	}
	q1 := stat.Quantile(floats, 0.25)
	q3 := stat.Quantile(floats, 0.75)
	iqr := q3 - q1
	return q1 - threshold*iqr, q3 + threshold*iqr
}
