package table

// Series is one named column: a slice of values plus the original row index
// each value came from. Transformations may fan a row out into several values,
// so indices can repeat; they are how results refer back to source rows.
type Series struct {
	Name   string
	values []Value
	index  []int
}

// NewSeries builds a series with a fresh 0..n-1 row index.
func NewSeries(name string, values []Value) *Series {
	index := make([]int, len(values))
	for i := range index {
		index[i] = i
	}
	return &Series{Name: name, values: values, index: index}
}

// NewSeriesWithIndex builds a series carrying explicit row indices.
// values and index must have equal length.
func NewSeriesWithIndex(name string, values []Value, index []int) *Series {
	if len(values) != len(index) {
		panic("table: series values and index length mismatch")
	}
	return &Series{Name: name, values: values, index: index}
}

// Len returns the number of values.
func (s *Series) Len() int {
	return len(s.values)
}

// At returns the value at position i.
func (s *Series) At(i int) Value {
	return s.values[i]
}

// RowIndex returns the original row index of position i.
func (s *Series) RowIndex(i int) int {
	return s.index[i]
}

// Values returns the backing value slice. Callers must not mutate it.
func (s *Series) Values() []Value {
	return s.values
}

// DropMissing returns a new series with missing values removed.
func (s *Series) DropMissing() *Series {
	return s.Where(func(v Value) bool { return !v.IsMissing() })
}

// Where returns a new series keeping only values the predicate accepts.
func (s *Series) Where(pred func(Value) bool) *Series {
	values := make([]Value, 0, len(s.values))
	index := make([]int, 0, len(s.values))
	for i, v := range s.values {
		if pred(v) {
			values = append(values, v)
			index = append(index, s.index[i])
		}
	}
	return &Series{Name: s.Name, values: values, index: index}
}

// Floats coerces every value to float64, dropping those that do not coerce.
// The second slice holds the original row index of each surviving value.
func (s *Series) Floats() ([]float64, []int) {
	floats := make([]float64, 0, len(s.values))
	index := make([]int, 0, len(s.values))
	for i, v := range s.values {
		if f, ok := v.AsFloat(); ok {
			floats = append(floats, f)
			index = append(index, s.index[i])
		}
	}
	return floats, index
}

// Categorical reports whether the series holds string-typed data: true when
// at least one non-missing value is a string. Numeric-looking categoricals
// (star ratings and the like) must be declared by the caller; this heuristic
// only inspects the dtype.
func (s *Series) Categorical() bool {
	for _, v := range s.values {
		if v.Kind() == KindString {
			return true
		}
	}
	return false
}

// NonMissing counts values that are not the missing marker.
func (s *Series) NonMissing() int {
	n := 0
	for _, v := range s.values {
		if !v.IsMissing() {
			n++
		}
	}
	return n
}
