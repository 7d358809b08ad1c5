package report

import (
	"encoding/json"
	"fmt"

	"tabreport/domain/core"
	"tabreport/domain/table"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpGt       Operator = "gt"
	OpLt       Operator = "lt"
	OpIn       Operator = "in"
	OpNotIn    Operator = "not_in"
	OpContains Operator = "contains"
)

// Valid reports whether the operator is one of the known set.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNeq, OpGt, OpLt, OpIn, OpNotIn, OpContains:
		return true
	}
	return false
}

// FilterValue is the right-hand side of a filter: a scalar or a list.
type FilterValue struct {
	values []table.Value
	isList bool
}

// ScalarValue builds a scalar filter value.
func ScalarValue(v table.Value) FilterValue {
	return FilterValue{values: []table.Value{v}}
}

// ListValue builds a list filter value.
func ListValue(vs ...table.Value) FilterValue {
	return FilterValue{values: vs, isList: true}
}

// Scalar returns the single value. False when the payload is a list.
func (fv FilterValue) Scalar() (table.Value, bool) {
	if fv.isList || len(fv.values) != 1 {
		return table.Missing(), false
	}
	return fv.values[0], true
}

// Values returns the payload as a list; a scalar becomes a one-element list.
func (fv FilterValue) Values() []table.Value {
	return fv.values
}

func (fv *FilterValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if list, ok := raw.([]any); ok {
		fv.isList = true
		fv.values = make([]table.Value, len(list))
		for i, item := range list {
			fv.values[i] = jsonValue(item)
		}
		return nil
	}
	fv.isList = false
	fv.values = []table.Value{jsonValue(raw)}
	return nil
}

func (fv FilterValue) MarshalJSON() ([]byte, error) {
	if fv.isList {
		out := make([]any, len(fv.values))
		for i, v := range fv.values {
			out[i] = jsonScalar(v)
		}
		return json.Marshal(out)
	}
	if len(fv.values) == 1 {
		return json.Marshal(jsonScalar(fv.values[0]))
	}
	return []byte("null"), nil
}

func jsonValue(raw any) table.Value {
	switch v := raw.(type) {
	case nil:
		return table.Missing()
	case float64:
		return table.Number(v)
	case bool:
		if v {
			return table.String("true")
		}
		return table.String("false")
	case string:
		return table.String(v)
	default:
		return table.String(fmt.Sprint(v))
	}
}

func jsonScalar(v table.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	if v.IsMissing() {
		return nil
	}
	return v.Str()
}

// Filter is one row-selection rule applied against a named column.
type Filter struct {
	Column   string      `json:"column"`
	Operator Operator    `json:"operator"`
	Value    FilterValue `json:"value"`
}

func (f Filter) validate() error {
	if f.Column == "" {
		return core.NewValidationError("filter.column", "must not be empty")
	}
	if !f.Operator.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidOperator, f.Operator)
	}
	return nil
}

// PostFilter is a filter applied to a transformed series; the column is the
// series itself, so only operator and value apply.
func validateFilters(filters []Filter, requireColumn bool) error {
	for i, f := range filters {
		if !requireColumn && f.Column == "" {
			if !f.Operator.Valid() {
				return fmt.Errorf("%w: %q", core.ErrInvalidOperator, f.Operator)
			}
			continue
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return nil
}
