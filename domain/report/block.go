package report

import (
	"tabreport/domain/table"
)

// Grid is the tabular payload of a block: named columns and insertion-ordered
// rows of heterogeneous cells.
type Grid struct {
	Columns []string
	Rows    [][]table.Value
}

// NewGrid builds an empty grid with the given column names.
func NewGrid(columns ...string) *Grid {
	return &Grid{Columns: columns}
}

// AddRow appends one row. Short rows are padded with missing markers so every
// row matches the column count.
func (g *Grid) AddRow(cells ...table.Value) {
	for len(cells) < len(g.Columns) {
		cells = append(cells, table.Missing())
	}
	g.Rows = append(g.Rows, cells)
}

// AddStrings appends a row of string cells.
func (g *Grid) AddStrings(cells ...string) {
	row := make([]table.Value, len(cells))
	for i, c := range cells {
		row[i] = table.String(c)
	}
	g.AddRow(row...)
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int {
	return len(g.Rows)
}

// IsEmpty reports whether the grid has no rows.
func (g *Grid) IsEmpty() bool {
	return len(g.Rows) == 0
}

// Append copies another grid's rows onto this one. Column sets must already
// agree; the caller owns that alignment.
func (g *Grid) Append(other *Grid) {
	g.Rows = append(g.Rows, other.Rows...)
}

// Block is the uniform per-step output envelope: a title and a result table.
// Every analysis handler produces exactly one block per step, error cases
// included.
type Block struct {
	Title string
	Data  *Grid
}

// NewBlock pairs a title with its result grid.
func NewBlock(title string, data *Grid) Block {
	return Block{Title: title, Data: data}
}

// ErrorBlock builds the synthetic block emitted when a step fails outright.
func ErrorBlock(title, message string) Block {
	g := NewGrid("Error")
	g.AddStrings(message)
	return Block{Title: title, Data: g}
}

// MessageGrid builds a one-row grid carrying a single message cell, used when
// an analysis ran but produced nothing reportable.
func MessageGrid(message string) *Grid {
	g := NewGrid("Message")
	g.AddStrings(message)
	return g
}
