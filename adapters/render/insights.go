package render

import (
	"fmt"
	"strconv"
	"strings"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

// Insights renders correlation and crosstab blocks into the legacy
// Crosstabs_Output / Correlation_Results layout: crosstabs first with their
// margins stripped, then a flat correlation table rounded to four decimals.
func Insights(blocks []report.Block) string {
	if len(blocks) == 0 {
		return ""
	}

	var corr, xtab []report.Block
	for _, b := range blocks {
		if strings.Contains(strings.ToLower(b.Title), "correlation") {
			corr = append(corr, b)
		} else {
			xtab = append(xtab, b)
		}
	}

	var sb strings.Builder
	if len(xtab) > 0 {
		renderCrosstabSection(&sb, xtab)
	}
	if len(corr) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		renderCorrelationSection(&sb, corr)
	}
	return sb.String()
}

func renderCrosstabSection(sb *strings.Builder, blocks []report.Block) {
	writeCSV(sb, nil, nil, []string{"Crosstabs_Output"})

	first := true
	for _, b := range blocks {
		columns, rows := stripMargins(b.Data)
		if len(rows) == 0 {
			continue
		}
		if first {
			sb.WriteString("\n")
			first = false
		} else {
			sb.WriteString("\n\n")
		}
		writeCSV(sb, nil, nil, []string{fmt.Sprintf("=== %s ===", b.Title)})
		sb.WriteString("\n")
		writeCSV(sb, columns, rows)
	}
}

// stripMargins drops the Group context, the "All" margin column and the
// "All" margin row from a crosstab grid.
func stripMargins(g *report.Grid) ([]string, [][]table.Value) {
	keep := make([]int, 0, len(g.Columns))
	for i, c := range g.Columns {
		if c == "Group" || c == "All" {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == 0 {
		return nil, nil
	}
	columns := make([]string, len(keep))
	for i, k := range keep {
		columns[i] = g.Columns[k]
	}
	var rows [][]table.Value
	for _, r := range g.Rows {
		if len(r) > keep[0] && r[keep[0]].Str() == "All" {
			continue
		}
		row := make([]table.Value, len(keep))
		for i, k := range keep {
			if k < len(r) {
				row[i] = r[k]
			} else {
				row[i] = table.Missing()
			}
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func renderCorrelationSection(sb *strings.Builder, blocks []report.Block) {
	extra := [][]string{
		{"Correlation_Results", "", ""},
		{"Source Column", "Target Column", "Correlation"},
	}
	for _, b := range blocks {
		cols := map[string]int{}
		for i, c := range b.Data.Columns {
			cols[c] = i
		}
		c1, ok1 := cols["Column 1"]
		c2, ok2 := cols["Column 2"]
		cv, ok3 := cols["Correlation Value"]
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		for _, r := range b.Data.Rows {
			if r[cv].IsMissing() {
				continue
			}
			value := ""
			if f, ok := r[cv].AsFloat(); ok {
				value = strconv.FormatFloat(round4(f), 'f', -1, 64)
			}
			extra = append(extra, []string{r[c1].Str(), r[c2].Str(), value})
		}
	}
	writeCSV(sb, nil, nil, extra...)
}

func round4(f float64) float64 {
	scaled := f * 10000
	if scaled >= 0 {
		return float64(int64(scaled+0.5)) / 10000
	}
	return float64(int64(scaled-0.5)) / 10000
}
