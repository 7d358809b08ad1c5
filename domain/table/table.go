package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrColumnNotFound is returned when a requested column does not exist.
var ErrColumnNotFound = errors.New("column not found")

// ErrAmbiguousColumn is returned when a column name resolves to more than one
// column. Duplicate names are a configuration error, never silently merged.
var ErrAmbiguousColumn = errors.New("ambiguous column name")

// Table is an immutable column-oriented table: named columns of equal length
// plus the original row index of every row. Filtering produces new tables that
// keep the source row indices, so downstream results can always refer back to
// rows of the loaded dataset.
type Table struct {
	names []string
	cols  [][]Value
	index []int
}

// New builds a table from series. All series must have equal length; their
// own indices are ignored and a fresh 0..n-1 row index is assigned.
func New(series ...*Series) (*Table, error) {
	t := &Table{}
	for i, s := range series {
		if i > 0 && s.Len() != len(t.index) {
			return nil, fmt.Errorf("column %q has %d rows, want %d", s.Name, s.Len(), len(t.index))
		}
		if i == 0 {
			t.index = make([]int, s.Len())
			for j := range t.index {
				t.index[j] = j
			}
		}
		t.names = append(t.names, s.Name)
		t.cols = append(t.cols, s.Values())
	}
	return t, nil
}

// MustNew is New for construction that cannot fail (tests, loaders that
// already validated lengths).
func MustNew(series ...*Series) *Table {
	t, err := New(series...)
	if err != nil {
		panic(err)
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.index)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.index) == 0
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasColumn reports whether exactly one column carries the given name.
func (t *Table) HasColumn(name string) bool {
	n := 0
	for _, c := range t.names {
		if c == name {
			n++
		}
	}
	return n == 1
}

// Column resolves a name to its series, carrying the table's row index.
// A duplicate name is ErrAmbiguousColumn; an unknown one ErrColumnNotFound.
func (t *Table) Column(name string) (*Series, error) {
	pos := -1
	for i, c := range t.names {
		if c != name {
			continue
		}
		if pos >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousColumn, name)
		}
		pos = i
	}
	if pos < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return NewSeriesWithIndex(name, t.cols[pos], t.index), nil
}

// Select returns a new table keeping only rows where mask is true.
// The mask must be RowCount long. Source row indices are preserved.
func (t *Table) Select(mask []bool) *Table {
	keep := 0
	for _, m := range mask {
		if m {
			keep++
		}
	}
	out := &Table{
		names: append([]string(nil), t.names...),
		cols:  make([][]Value, len(t.cols)),
		index: make([]int, 0, keep),
	}
	for i := range out.cols {
		out.cols[i] = make([]Value, 0, keep)
	}
	for row, m := range mask {
		if !m {
			continue
		}
		out.index = append(out.index, t.index[row])
		for i := range t.cols {
			out.cols[i] = append(out.cols[i], t.cols[i][row])
		}
	}
	return out
}

// Group is one partition of a table: the formatted label, the key values that
// define it, and the rows that share them.
type Group struct {
	Label string
	Keys  []Value
	Table *Table
}

// GroupBy partitions rows by the distinct value-tuples of the key columns.
// Rows with a missing key are kept as their own partition. Groups are ordered
// by ascending key tuples (numeric-aware, missing last). Labels are the
// comma-joined display forms of the tuple values.
func (t *Table) GroupBy(keys []string) ([]Group, error) {
	keyCols := make([]*Series, len(keys))
	for i, k := range keys {
		col, err := t.Column(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = col
	}

	type partition struct {
		keys []Value
		rows []int
	}
	seen := map[string]*partition{}
	var order []*partition

	for row := 0; row < t.RowCount(); row++ {
		tuple := make([]Value, len(keyCols))
		var sb strings.Builder
		for i, col := range keyCols {
			v := col.At(row)
			tuple[i] = v
			// Kind-prefixed canonical form so "1" and 1 stay distinct keys.
			fmt.Fprintf(&sb, "%d\x1f%s\x1e", v.Kind(), v.Str())
		}
		key := sb.String()
		p, ok := seen[key]
		if !ok {
			p = &partition{keys: tuple}
			seen[key] = p
			order = append(order, p)
		}
		p.rows = append(p.rows, row)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return lessTuple(order[a].keys, order[b].keys)
	})

	groups := make([]Group, 0, len(order))
	for _, p := range order {
		mask := make([]bool, t.RowCount())
		for _, r := range p.rows {
			mask[r] = true
		}
		labels := make([]string, len(p.keys))
		for i, v := range p.keys {
			labels[i] = v.Label()
		}
		groups = append(groups, Group{
			Label: strings.Join(labels, ", "),
			Keys:  p.keys,
			Table: t.Select(mask),
		})
	}
	return groups, nil
}

// lessTuple orders key tuples ascending, missing values last.
func lessTuple(a, b []Value) bool {
	for i := range a {
		am, bm := a[i].IsMissing(), b[i].IsMissing()
		if am != bm {
			return bm // missing sorts after present
		}
		if am && bm {
			continue
		}
		if c, ok := a[i].Compare(b[i]); ok && c != 0 {
			return c < 0
		}
	}
	return false
}
