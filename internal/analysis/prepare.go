package analysis

import (
	stderrors "errors"
	"strings"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/errors"
)

// FullDatasetLabel names the single group produced when a step requests no
// grouping.
const FullDatasetLabel = "Full Dataset"

// prepareGroups applies a step's filters in order, then partitions the
// filtered rows by its group-by columns. Filters AND cumulatively; the input
// table is never mutated. An ambiguous filter column is a configuration
// error raised before any row is evaluated.
func prepareGroups(tbl *table.Table, base report.BaseStep) ([]table.Group, error) {
	filtered := tbl
	for _, f := range base.Filters {
		col, err := filtered.Column(f.Column)
		if err != nil {
			if stderrors.Is(err, table.ErrAmbiguousColumn) {
				return nil, errors.ConfigInvalid(err.Error())
			}
			// Unknown filter column filters everything out, mirroring the
			// per-column "not found" treatment downstream.
			return nil, errors.Wrapf(err, "filter column %q", f.Column)
		}
		mask := make([]bool, col.Len())
		for i := 0; i < col.Len(); i++ {
			mask[i] = matchFilter(col.At(i), f)
		}
		filtered = filtered.Select(mask)
	}

	if len(base.GroupBy) == 0 {
		return []table.Group{{Label: FullDatasetLabel, Table: filtered}}, nil
	}
	groups, err := filtered.GroupBy(base.GroupBy)
	if err != nil {
		return nil, errors.Wrap(err, "grouping failed")
	}
	return groups, nil
}

// matchFilter evaluates one filter against one cell. Missing cells never
// match eq/gt/lt/in/contains and always match neq/not_in.
func matchFilter(v table.Value, f report.Filter) bool {
	switch f.Operator {
	case report.OpEq:
		scalar, ok := f.Value.Scalar()
		return ok && v.Equal(scalar)
	case report.OpNeq:
		scalar, ok := f.Value.Scalar()
		return !ok || !v.Equal(scalar)
	case report.OpGt:
		scalar, ok := f.Value.Scalar()
		if !ok {
			return false
		}
		c, comparable := v.Compare(scalar)
		return comparable && c > 0
	case report.OpLt:
		scalar, ok := f.Value.Scalar()
		if !ok {
			return false
		}
		c, comparable := v.Compare(scalar)
		return comparable && c < 0
	case report.OpIn:
		for _, candidate := range f.Value.Values() {
			if v.Equal(candidate) {
				return true
			}
		}
		return false
	case report.OpNotIn:
		for _, candidate := range f.Value.Values() {
			if v.Equal(candidate) {
				return false
			}
		}
		return true
	case report.OpContains:
		if v.IsMissing() {
			return false
		}
		scalar, ok := f.Value.Scalar()
		return ok && strings.Contains(v.Str(), scalar.Str())
	}
	return false
}
