package render

import (
	"encoding/csv"
	"fmt"
	"strings"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

// Split partitions blocks into the main report and the insights artifact.
// Correlation and crosstab blocks go to insights; everything else to the
// report.
func Split(blocks []report.Block) (reportBlocks, insightBlocks []report.Block) {
	for _, b := range blocks {
		title := strings.ToLower(b.Title)
		if strings.Contains(title, "correlation") ||
			strings.Contains(title, "crosstab") ||
			strings.Contains(title, "cross-tab") {
			insightBlocks = append(insightBlocks, b)
		} else {
			reportBlocks = append(reportBlocks, b)
		}
	}
	return reportBlocks, insightBlocks
}

// Report renders the main report blocks into one flat CSV, blank lines
// between blocks. Blocks three columns wide or narrower get the compact
// 3-column layout; wider ones keep a title line plus the full table.
func Report(blocks []report.Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderBlock(&sb, b)
	}
	return sb.String()
}

func renderBlock(sb *strings.Builder, b report.Block) {
	data := b.Data
	if !data.IsEmpty() && len(data.Columns) <= 3 {
		renderSimpleBlock(sb, b)
		return
	}
	fmt.Fprintf(sb, "%q\n", b.Title)
	if data.IsEmpty() {
		sb.WriteString("(No data produced for this analysis)\n")
		return
	}
	writeCSV(sb, data.Columns, data.Rows)
}

// renderSimpleBlock emits the compact layout: an uppercased header cell
// naming the analysis, then the payload padded to three columns.
func renderSimpleBlock(sb *strings.Builder, b report.Block) {
	hdr := blockHeader(b.Title)
	op := operationLabel(b.Title)
	head := fmt.Sprintf("%s - %s", hdr, op)
	cols := b.Data.Columns

	var rows [][]string
	switch {
	case len(cols) == 3 && cols[0] == "" && cols[1] == "%" && cols[2] == "Count":
		rows = append(rows, []string{head, "%", "Count"})
		for _, r := range b.Data.Rows {
			rows = append(rows, []string{cellString(r[0]), cellString(r[1]), cellString(r[2])})
		}
	case len(cols) == 2 && cols[0] == "Duplicates" && cols[1] == "Instances":
		rows = append(rows, []string{head, "Duplicates", "Instances"})
		for _, r := range b.Data.Rows {
			rows = append(rows, []string{"", cellString(r[0]), cellString(r[1])})
		}
	case len(cols) == 1 && cols[0] == "Average":
		rows = append(rows, []string{head, "", "Average"})
		for _, r := range b.Data.Rows {
			rows = append(rows, []string{"", "", cellString(r[0])})
		}
	default:
		metric := "Value"
		if len(cols) == 3 && cols[2] != "" {
			metric = cols[2]
		} else if len(cols) > 0 && cols[len(cols)-1] != "" {
			metric = cols[len(cols)-1]
		}
		rows = append(rows, []string{head, "", metric})
		for _, r := range b.Data.Rows {
			cells := make([]string, 3)
			for i := 0; i < len(r) && i < 3; i++ {
				cells[i] = cellString(r[i])
			}
			rows = append(rows, cells)
		}
	}
	writeCSV(sb, nil, nil, rows...)
}

// blockHeader uppercases the part of the title before a dash separator,
// with underscores read as spaces.
func blockHeader(title string) string {
	for _, sep := range []string{"—", "-"} {
		if left, _, found := strings.Cut(title, sep); found {
			title = left
			break
		}
	}
	base := strings.ReplaceAll(strings.TrimSpace(title), "_", " ")
	return strings.ToUpper(base)
}

// operationLabel derives a lowercase operation label from the title's tail.
func operationLabel(title string) string {
	op := strings.ToLower(strings.TrimSpace(title))
	for _, sep := range []string{"—", "-"} {
		if _, right, found := strings.Cut(title, sep); found {
			op = strings.ToLower(strings.TrimSpace(right))
			break
		}
	}
	switch {
	case strings.Contains(op, "distribution"):
		return "distribution"
	case strings.Contains(op, "duplicate"):
		return "duplicate count"
	case strings.Contains(op, "average"):
		return "average"
	}
	op = strings.Join(strings.Fields(op), " ")
	if op == "" {
		return "result"
	}
	return op
}

// cellString renders one cell for CSV output. Missing renders empty.
func cellString(v table.Value) string {
	return v.Str()
}

// writeCSV appends CSV lines: an optional header, grid rows, then any extra
// pre-stringified rows.
func writeCSV(sb *strings.Builder, header []string, rows [][]table.Value, extra ...[]string) {
	w := csv.NewWriter(sb)
	if header != nil {
		w.Write(header)
	}
	for _, r := range rows {
		record := make([]string, len(r))
		for i, v := range r {
			record[i] = cellString(v)
		}
		w.Write(record)
	}
	for _, r := range extra {
		w.Write(r)
	}
	w.Flush()
}
