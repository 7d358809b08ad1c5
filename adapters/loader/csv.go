package loader

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"tabreport/domain/table"
	"tabreport/internal/errors"
)

// delimiterCandidates are tried when sniffing the CSV separator.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// LoadCSV parses CSV bytes into a cleaned table. The delimiter is sniffed
// from the header line; ragged rows are tolerated and padded.
func LoadCSV(r io.Reader) (*table.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the file")
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = sniffDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("failed to parse the file, it may be malformed or empty", err)
	}
	if len(records) < 2 {
		return nil, errors.ParseError("the uploaded file is empty or contains no data", nil)
	}
	return buildTable(records[0], records[1:])
}

// sniffDelimiter picks the candidate occurring most often in the first line.
func sniffDelimiter(raw []byte) rune {
	line, _, _ := strings.Cut(string(raw), "\n")
	best := ','
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		count := strings.Count(line, string(candidate))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}
