package analysis

import (
	"sort"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

// marginLabel names the crosstab margin row and column.
const marginLabel = "All"

type crosstabGroup struct {
	Label     string
	RowLabels []string // sorted, margin excluded
	ColLabels []string // sorted, margin excluded
	Cells     map[string]map[string]float64
}

// runCrosstab builds one contingency table per group between the index and
// comparison columns, with margin row and column, after applying reshaping
// transformations. Each source row contributes the cross product of its
// exploded index and comparison tokens; rows with a missing side are
// dropped.
func runCrosstab(rc *runContext, tbl *table.Table, s *report.CrosstabStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}
	idxTrans := report.TransformationsFor(s.ColumnTransformations, s.IndexColumn)
	cmpTrans := report.TransformationsFor(s.ColumnTransformations, s.ColumnToCompare)

	var tabs []crosstabGroup
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}
		idxCol, err := group.Table.Column(s.IndexColumn)
		if err != nil {
			return nil, err
		}
		cmpCol, err := group.Table.Column(s.ColumnToCompare)
		if err != nil {
			return nil, err
		}

		cells := map[string]map[string]float64{}
		total := 0.0
		for i := 0; i < idxCol.Len(); i++ {
			idxTokens, err := explodeTokens(idxCol.At(i), idxTrans)
			if err != nil {
				return nil, err
			}
			cmpTokens, err := explodeTokens(cmpCol.At(i), cmpTrans)
			if err != nil {
				return nil, err
			}
			if len(idxTokens) == 0 || len(cmpTokens) == 0 {
				continue
			}
			for _, a := range idxTokens {
				if cells[a] == nil {
					cells[a] = map[string]float64{}
				}
				for _, b := range cmpTokens {
					cells[a][b]++
					total++
				}
			}
		}
		if total == 0 {
			continue
		}

		tab := crosstabGroup{Label: group.Label, Cells: cells}
		colSeen := map[string]bool{}
		for rowLabel, row := range cells {
			tab.RowLabels = append(tab.RowLabels, rowLabel)
			for colLabel := range row {
				colSeen[colLabel] = true
			}
		}
		for colLabel := range colSeen {
			tab.ColLabels = append(tab.ColLabels, colLabel)
		}
		sortLabels(tab.RowLabels)
		sortLabels(tab.ColLabels)

		addMargins(&tab)
		applyPercentages(&tab, s.ShowPercentages)
		tabs = append(tabs, tab)
	}

	if len(tabs) == 0 {
		return report.NewGrid("Group", "Data"), nil
	}

	// Union of comparison labels across groups, sorted, margin column last.
	colSeen := map[string]bool{}
	var allCols []string
	for _, tab := range tabs {
		for _, c := range tab.ColLabels {
			if !colSeen[c] {
				colSeen[c] = true
				allCols = append(allCols, c)
			}
		}
	}
	sortLabels(allCols)

	columns := append([]string{"Group", s.IndexColumn}, allCols...)
	columns = append(columns, marginLabel)
	g := report.NewGrid(columns...)
	for _, tab := range tabs {
		rowLabels := append(append([]string{}, tab.RowLabels...), marginLabel)
		for _, rowLabel := range rowLabels {
			row := []table.Value{table.String(tab.Label), table.String(rowLabel)}
			for _, colLabel := range append(append([]string{}, allCols...), marginLabel) {
				if v, ok := tab.Cells[rowLabel][colLabel]; ok {
					row = append(row, table.Number(v))
				} else {
					row = append(row, table.Missing())
				}
			}
			g.AddRow(row...)
		}
	}
	return g, nil
}

// addMargins appends the "All" row and column of raw count sums.
func addMargins(tab *crosstabGroup) {
	margin := map[string]float64{}
	grand := 0.0
	for _, rowLabel := range tab.RowLabels {
		rowSum := 0.0
		for _, colLabel := range tab.ColLabels {
			v := tab.Cells[rowLabel][colLabel]
			rowSum += v
			margin[colLabel] += v
		}
		tab.Cells[rowLabel][marginLabel] = rowSum
		grand += rowSum
	}
	margin[marginLabel] = grand
	tab.Cells[marginLabel] = margin
}

// applyPercentages normalizes cells by the row margin, column margin, or
// grand total. Raw counts are kept for mode "none".
func applyPercentages(tab *crosstabGroup, mode report.Percent) {
	if mode == report.PercentNone {
		return
	}
	rowLabels := append(append([]string{}, tab.RowLabels...), marginLabel)
	colLabels := append(append([]string{}, tab.ColLabels...), marginLabel)
	grand := tab.Cells[marginLabel][marginLabel]

	for _, rowLabel := range rowLabels {
		for _, colLabel := range colLabels {
			var denom float64
			switch mode {
			case report.PercentIndex:
				denom = tab.Cells[rowLabel][marginLabel]
			case report.PercentColumns:
				denom = tab.Cells[marginLabel][colLabel]
			case report.PercentAll:
				denom = grand
			}
			if denom > 0 {
				tab.Cells[rowLabel][colLabel] /= denom
			}
		}
	}
}

// sortLabels orders labels ascending with numeric awareness: labels that all
// parse as numbers sort numerically, otherwise lexically.
func sortLabels(labels []string) {
	sort.SliceStable(labels, func(a, b int) bool {
		va, vb := table.String(labels[a]), table.String(labels[b])
		if c, ok := va.Compare(vb); ok {
			return c < 0
		}
		return labels[a] < labels[b]
	})
}
