package loader

import (
	"io"

	"github.com/xuri/excelize/v2"

	"tabreport/domain/table"
	"tabreport/internal/errors"
)

// LoadExcel parses the first sheet of an Excel workbook into a cleaned
// table, with the first row as headers.
func LoadExcel(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ParseError("failed to parse the file, it may be malformed or empty", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("the uploaded file is empty or contains no data", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseError("failed to read the worksheet", err)
	}
	if len(rows) < 2 {
		return nil, errors.ParseError("the uploaded file is empty or contains no data", nil)
	}
	return buildTable(rows[0], rows[1:])
}
