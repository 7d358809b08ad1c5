package analysis

import (
	"strings"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

// applyTransformations runs a column's transformation list in order, then
// narrows the result with post filters. split_and_explode is the only action
// that changes cardinality; exploded values keep the source row index of the
// cell they came from.
func applyTransformations(s *table.Series, transformations []report.Transformation, postFilters []report.Filter) (*table.Series, error) {
	for _, t := range transformations {
		var err error
		s, err = applyAction(s, t)
		if err != nil {
			return nil, err
		}
	}
	for _, f := range postFilters {
		s = s.Where(func(v table.Value) bool { return matchFilter(v, f) })
	}
	return s, nil
}

func applyAction(s *table.Series, t report.Transformation) (*table.Series, error) {
	switch t.Action {
	case report.ActionSplitAndExplode:
		delimiter, err := t.Delimiter()
		if err != nil {
			return nil, err
		}
		return explode(s, delimiter), nil

	case report.ActionToRootNode:
		delimiter, err := t.Delimiter()
		if err != nil {
			return nil, err
		}
		return mapValues(s, func(v table.Value) table.Value {
			if v.IsMissing() {
				return v
			}
			token, _, _ := strings.Cut(v.Str(), delimiter)
			return table.String(token)
		}), nil

	case report.ActionStripWhitespace:
		return mapValues(s, func(v table.Value) table.Value {
			if v.IsMissing() {
				return v
			}
			return table.String(strings.TrimSpace(v.Str()))
		}), nil

	case report.ActionToNumeric:
		return mapValues(s, func(v table.Value) table.Value {
			if f, ok := v.AsFloat(); ok {
				return table.Number(f)
			}
			return table.Missing()
		}), nil

	case report.ActionFillNA:
		fill := t.FillValue()
		return mapValues(s, func(v table.Value) table.Value {
			if v.IsMissing() {
				return fill
			}
			return v
		}), nil
	}
	return s, nil
}

func mapValues(s *table.Series, f func(table.Value) table.Value) *table.Series {
	values := make([]table.Value, s.Len())
	index := make([]int, s.Len())
	for i := 0; i < s.Len(); i++ {
		values[i] = f(s.At(i))
		index[i] = s.RowIndex(i)
	}
	return table.NewSeriesWithIndex(s.Name, values, index)
}

// explode fans each cell out to one value per delimited token. A missing
// cell stays a single missing value rather than becoming a "NaN" token.
func explode(s *table.Series, delimiter string) *table.Series {
	values := make([]table.Value, 0, s.Len())
	index := make([]int, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v.IsMissing() {
			values = append(values, v)
			index = append(index, s.RowIndex(i))
			continue
		}
		for _, token := range strings.Split(v.Str(), delimiter) {
			values = append(values, table.String(token))
			index = append(index, s.RowIndex(i))
		}
	}
	return table.NewSeriesWithIndex(s.Name, values, index)
}

// explodeTokens returns the exploded string tokens of one cell, or nil for a
// missing cell. Used by crosstab to form per-row token cross products.
func explodeTokens(v table.Value, transformations []report.Transformation) ([]string, error) {
	if v.IsMissing() {
		return nil, nil
	}
	tokens := []string{v.Str()}
	for _, t := range transformations {
		switch t.Action {
		case report.ActionSplitAndExplode:
			delimiter, err := t.Delimiter()
			if err != nil {
				return nil, err
			}
			next := make([]string, 0, len(tokens))
			for _, tok := range tokens {
				next = append(next, strings.Split(tok, delimiter)...)
			}
			tokens = next
		case report.ActionStripWhitespace:
			for i, tok := range tokens {
				tokens[i] = strings.TrimSpace(tok)
			}
		}
	}
	return tokens, nil
}
