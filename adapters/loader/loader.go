package loader

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"tabreport/domain/table"
	"tabreport/internal/errors"
)

// naTokens is the catalogue of cell values treated as missing, matching the
// placeholders spreadsheet tools and exports commonly emit.
var naTokens = map[string]bool{
	"":          true,
	"#N/A":      true,
	"#N/A N/A":  true,
	"#NA":       true,
	"-1.#IND":   true,
	"-1.#QNAN":  true,
	"-NaN":      true,
	"-nan":      true,
	"1.#IND":    true,
	"1.#QNAN":   true,
	"<NA>":      true,
	"N/A":       true,
	"NULL":      true,
	"NaN":       true,
	"n/a":       true,
	"nan":       true,
	"null":      true,
	"?":         true,
	"None":      true,
}

// Load reads tabular data from a reader, dispatching on the filename
// extension, and returns a cleaned table: normalized de-duplicated headers,
// trimmed cells, NA tokens as missing markers, and numeric columns inferred.
func Load(r io.Reader, filename string) (*table.Table, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return LoadCSV(r)
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return LoadExcel(r)
	default:
		return nil, errors.InvalidInput("unsupported file type, please upload a CSV or Excel file")
	}
}

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	nonWordRun  = regexp.MustCompile(`[^0-9A-Za-z_]+`)
	underscores = regexp.MustCompile(`_+`)
)

// normalizeHeader canonicalizes one column header to lower_snake_case.
func normalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = spaceRun.ReplaceAllString(name, " ")
	name = strings.ToLower(name)
	name = nonWordRun.ReplaceAllString(name, "_")
	name = underscores.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// normalizeHeaders canonicalizes all headers and de-duplicates collisions
// with numeric suffixes, so the table never carries ambiguous names.
func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := map[string]int{}
	for i, h := range headers {
		name := normalizeHeader(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n)
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// buildTable assembles a table from raw string records: trims cells, maps NA
// tokens to missing, and converts columns whose every non-missing cell
// parses as a number into numeric columns.
func buildTable(headers []string, records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, errors.ParseError("the uploaded file is empty or contains no data", nil)
	}
	names := normalizeHeaders(headers)

	columns := make([][]table.Value, len(names))
	numeric := make([]bool, len(names))
	for c := range columns {
		columns[c] = make([]table.Value, len(records))
		numeric[c] = true
	}
	for r, record := range records {
		for c := range names {
			cell := ""
			if c < len(record) {
				cell = strings.TrimSpace(record[c])
			}
			if naTokens[cell] {
				columns[c][r] = table.Missing()
				continue
			}
			columns[c][r] = table.String(cell)
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[c] = false
			}
		}
	}

	series := make([]*table.Series, len(names))
	for c, name := range names {
		if numeric[c] {
			for r, v := range columns[c] {
				if v.IsMissing() {
					continue
				}
				f, _ := v.AsFloat()
				columns[c][r] = table.Number(f)
			}
		}
		series[c] = table.NewSeries(name, columns[c])
	}
	return table.New(series...)
}
