package report

import (
	"fmt"

	"tabreport/domain/core"
	"tabreport/domain/table"
)

// Action is a column transformation action.
type Action string

const (
	ActionSplitAndExplode Action = "split_and_explode"
	ActionToRootNode      Action = "to_root_node"
	ActionStripWhitespace Action = "strip_whitespace"
	ActionToNumeric       Action = "to_numeric"
	ActionFillNA          Action = "fill_na"
)

// Valid reports whether the action is one of the known set.
func (a Action) Valid() bool {
	switch a {
	case ActionSplitAndExplode, ActionToRootNode, ActionStripWhitespace, ActionToNumeric, ActionFillNA:
		return true
	}
	return false
}

// Transformation is one value-level transform applied to a column before the
// analysis operation runs.
type Transformation struct {
	Action Action         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Delimiter returns the delimiter param. split_and_explode and to_root_node
// require it; absence is a validation error caught at decode time.
func (t Transformation) Delimiter() (string, error) {
	raw, ok := t.Params["delimiter"]
	if !ok {
		return "", core.NewMissingParamError(string(t.Action), "delimiter")
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", core.NewMissingParamError(string(t.Action), "delimiter")
	}
	return s, nil
}

// FillValue returns the fill_na replacement value, defaulting to 0.
func (t Transformation) FillValue() table.Value {
	raw, ok := t.Params["value"]
	if !ok {
		return table.Number(0)
	}
	switch v := raw.(type) {
	case float64:
		return table.Number(v)
	case string:
		return table.String(v)
	default:
		return table.String(fmt.Sprint(v))
	}
}

func (t Transformation) validate(allowed map[Action]bool) error {
	if !t.Action.Valid() {
		return core.NewValidationError("transformation.action", fmt.Sprintf("unknown action %q", t.Action))
	}
	if allowed != nil && !allowed[t.Action] {
		return fmt.Errorf("%w: %q", core.ErrDisallowedAction, t.Action)
	}
	if t.Action == ActionSplitAndExplode || t.Action == ActionToRootNode {
		if _, err := t.Delimiter(); err != nil {
			return err
		}
	}
	return nil
}

// ColumnTransformation binds an ordered transformation list to one column.
type ColumnTransformation struct {
	ColumnName      string           `json:"column_name"`
	Transformations []Transformation `json:"transformations"`
}

func validateColumnTransformations(cts []ColumnTransformation, allowed map[Action]bool) error {
	for _, ct := range cts {
		if ct.ColumnName == "" {
			return core.NewValidationError("column_transformations.column_name", "must not be empty")
		}
		for _, t := range ct.Transformations {
			if err := t.validate(allowed); err != nil {
				return fmt.Errorf("column %q: %w", ct.ColumnName, err)
			}
		}
	}
	return nil
}

// TransformationsFor returns the transformation list declared for a column,
// or nil when the column has none.
func TransformationsFor(cts []ColumnTransformation, column string) []Transformation {
	for _, ct := range cts {
		if ct.ColumnName == column {
			return ct.Transformations
		}
	}
	return nil
}
