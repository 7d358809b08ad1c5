package analysis

import (
	"fmt"
	"sort"
	"time"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/stat"
)

// distEntry is one distinct value of a distribution with its count and
// largest-remainder percentage.
type distEntry struct {
	Value   string
	Count   int
	Percent int
}

// dupEntry is one value occurring more than once.
type dupEntry struct {
	Value     string
	Instances int
}

// customResult is the outcome of one operation over one (group, column).
type customResult struct {
	Group    table.Group
	Column   string
	NotFound bool

	Agg     table.Value // average / sum / median
	Dist    []distEntry
	Dups    []dupEntry
	Uniques []table.Value
}

// runCustom executes the generic aggregate workbench: one operation applied
// per target column per group, with the pipeline's transformations and post
// filters in between. Output layout depends on context: the single-column,
// ungrouped case emits a payload-only table; grouped or multi-column runs
// prepend Group/Column context.
func runCustom(rc *runContext, tbl *table.Table, s *report.CustomStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}

	multiContext := len(s.GroupBy) > 0 || len(s.TargetColumns) > 1

	var results []customResult
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}
		for _, colName := range s.TargetColumns {
			if !group.Table.HasColumn(colName) {
				results = append(results, customResult{Group: group, Column: colName, NotFound: true})
				continue
			}
			col, err := group.Table.Column(colName)
			if err != nil {
				return nil, err
			}
			transformed, err := applyTransformations(col, s.Transformations, s.PostFilters)
			if err != nil {
				return nil, err
			}
			res := customResult{Group: group, Column: colName}
			switch s.Operation {
			case report.OpAverage, report.OpSum:
				res.Agg = aggregate(transformed, s.Operation)
			case report.OpMedian:
				res.Agg = median(transformed)
			case report.OpDistribution:
				res.Dist = distribution(transformed)
			case report.OpDuplicates:
				res.Dups = duplicates(transformed)
			case report.OpUniqueList:
				res.Uniques = uniqueValues(transformed)
			}
			results = append(results, res)
		}
	}

	if len(results) == 0 {
		return report.MessageGrid("No data produced for this analysis"), nil
	}
	return assembleCustom(s, multiContext, results), nil
}

func aggregate(s *table.Series, op report.Operation) table.Value {
	floats, _ := s.Floats()
	if len(floats) == 0 {
		return table.Missing()
	}
	total := 0.0
	for _, f := range floats {
		total += f
	}
	if op == report.OpSum {
		return table.Number(stat.Round2(total))
	}
	return table.Number(stat.Round2(total / float64(len(floats))))
}

// median computes a numeric median, falling back to a date median only when
// numeric coercion leaves nothing.
func median(s *table.Series) table.Value {
	nonMissing := s.DropMissing()
	if nonMissing.Len() == 0 {
		return table.Missing()
	}
	if floats, _ := nonMissing.Floats(); len(floats) > 0 {
		return table.Number(stat.Round2(stat.Quantile(floats, 0.5)))
	}

	var times []time.Time
	for i := 0; i < nonMissing.Len(); i++ {
		if t, ok := nonMissing.At(i).AsTime(); ok {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		return table.Missing()
	}
	sort.Slice(times, func(a, b int) bool { return times[a].Before(times[b]) })
	mid := len(times) / 2
	median := times[mid]
	if len(times)%2 == 0 {
		lo, hi := times[mid-1], times[mid]
		median = lo.Add(hi.Sub(lo) / 2)
	}
	return table.String(median.Format("01/02/2006"))
}

// distribution counts non-missing values and attaches integer percentages
// that sum to exactly 100. Entries are ordered by descending count, ties by
// first appearance.
func distribution(s *table.Series) []distEntry {
	order, counts := valueCounts(s)
	if len(order) == 0 {
		return nil
	}
	countList := make([]int, len(order))
	for i, v := range order {
		countList[i] = counts[v]
	}
	percents := stat.LargestRemainder(countList)
	entries := make([]distEntry, len(order))
	for i, v := range order {
		entries[i] = distEntry{Value: v, Count: countList[i], Percent: percents[i]}
	}
	return entries
}

func duplicates(s *table.Series) []dupEntry {
	order, counts := valueCounts(s)
	var out []dupEntry
	for _, v := range order {
		if counts[v] > 1 {
			out = append(out, dupEntry{Value: v, Instances: counts[v]})
		}
	}
	return out
}

// valueCounts string-normalizes non-missing values and returns the distinct
// values ordered by descending count (ties by first appearance) with their
// counts.
func valueCounts(s *table.Series) ([]string, map[string]int) {
	counts := map[string]int{}
	var firstSeen []string
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v.IsMissing() {
			continue
		}
		key := v.Str()
		if counts[key] == 0 {
			firstSeen = append(firstSeen, key)
		}
		counts[key]++
	}
	sort.SliceStable(firstSeen, func(a, b int) bool {
		return counts[firstSeen[a]] > counts[firstSeen[b]]
	})
	return firstSeen, counts
}

// uniqueValues deduplicates non-missing values, sorted numerically when every
// value coerces to a number, lexically otherwise.
func uniqueValues(s *table.Series) []table.Value {
	seen := map[string]bool{}
	var distinct []table.Value
	allNumeric := true
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v.IsMissing() {
			continue
		}
		key := v.Str()
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, v)
		if _, ok := v.AsFloat(); !ok {
			allNumeric = false
		}
	}
	sort.SliceStable(distinct, func(a, b int) bool {
		if allNumeric {
			fa, _ := distinct[a].AsFloat()
			fb, _ := distinct[b].AsFloat()
			return fa < fb
		}
		return distinct[a].Str() < distinct[b].Str()
	})
	return distinct
}

// aggLabel maps an aggregate operation to its payload column name.
func aggLabel(op report.Operation) string {
	switch op {
	case report.OpAverage:
		return "Average"
	case report.OpSum:
		return "Sum"
	case report.OpMedian:
		return "Median"
	}
	return "Value"
}

// assembleCustom lays the per-(group, column) results out into one grid.
func assembleCustom(s *report.CustomStep, multiContext bool, results []customResult) *report.Grid {
	hasErrors := false
	for _, r := range results {
		if r.NotFound {
			hasErrors = true
		}
	}

	if !multiContext {
		return assembleSimple(s, results[0])
	}

	switch s.Operation {
	case report.OpAverage, report.OpSum, report.OpMedian:
		return assembleGroupedAgg(s, results, hasErrors)
	case report.OpDistribution:
		return assembleSections(results, hasErrors, []string{"", "%", "Count"}, func(g *report.Grid, r customResult, prefix []table.Value) {
			for _, e := range r.Dist {
				row := append(append([]table.Value{}, prefix...),
					table.String(e.Value),
					table.String(fmt.Sprintf("%d%%", e.Percent)),
					table.Number(float64(e.Count)))
				g.AddRow(row...)
			}
		})
	case report.OpDuplicates:
		return assembleSections(results, hasErrors, []string{"Duplicates", "Instances"}, func(g *report.Grid, r customResult, prefix []table.Value) {
			for _, e := range r.Dups {
				row := append(append([]table.Value{}, prefix...),
					table.String(e.Value),
					table.Number(float64(e.Instances)))
				g.AddRow(row...)
			}
		})
	default: // list_unique_values
		columns := []string{"Group", "Column", "Unique Value"}
		if hasErrors {
			columns = append(columns, "Error")
		}
		g := report.NewGrid(columns...)
		for _, r := range results {
			if r.NotFound {
				g.AddRow(table.String(r.Group.Label), table.String(r.Column), table.Missing(), table.String("Column not found"))
				continue
			}
			for _, v := range r.Uniques {
				g.AddRow(table.String(r.Group.Label), table.String(r.Column), v)
			}
		}
		return g
	}
}

// assembleSimple emits the payload-only layout for the single-column,
// ungrouped case.
func assembleSimple(s *report.CustomStep, r customResult) *report.Grid {
	if r.NotFound {
		g := report.NewGrid("Group", "Column", "Error")
		g.AddRow(table.String(r.Group.Label), table.String(r.Column), table.String("Column not found"))
		return g
	}
	switch s.Operation {
	case report.OpAverage, report.OpSum, report.OpMedian:
		g := report.NewGrid(aggLabel(s.Operation))
		g.AddRow(r.Agg)
		return g
	case report.OpDistribution:
		g := report.NewGrid("", "%", "Count")
		for _, e := range r.Dist {
			g.AddRow(table.String(e.Value), table.String(fmt.Sprintf("%d%%", e.Percent)), table.Number(float64(e.Count)))
		}
		return g
	case report.OpDuplicates:
		g := report.NewGrid("Duplicates", "Instances")
		for _, e := range r.Dups {
			g.AddRow(table.String(e.Value), table.Number(float64(e.Instances)))
		}
		return g
	default:
		g := report.NewGrid("Unique Value")
		for _, v := range r.Uniques {
			g.AddRow(v)
		}
		return g
	}
}

// assembleGroupedAgg lays out average/sum/median results. Grouped runs over
// a single target get the pretty layout: group-by fields first, then a
// "Average of <col>" metric column. Everything else keeps Group/Column
// context columns.
func assembleGroupedAgg(s *report.CustomStep, results []customResult, hasErrors bool) *report.Grid {
	metric := aggLabel(s.Operation)

	if len(s.GroupBy) > 0 && len(s.TargetColumns) == 1 {
		renamed := fmt.Sprintf("%s of %s", metric, s.TargetColumns[0])
		columns := append(append([]string{}, s.GroupBy...), renamed)
		if hasErrors {
			columns = append(columns, "Error")
		}
		g := report.NewGrid(columns...)
		for _, r := range results {
			row := make([]table.Value, 0, len(columns))
			row = append(row, r.Group.Keys...)
			if r.NotFound {
				row = append(row, table.Missing(), table.String("Column not found"))
			} else {
				row = append(row, r.Agg)
			}
			g.AddRow(row...)
		}
		return g
	}

	columns := []string{"Group", "Column"}
	if len(s.GroupBy) > 0 {
		columns = append(columns, s.GroupBy...)
	}
	columns = append(columns, metric)
	if hasErrors {
		columns = append(columns, "Error")
	}
	g := report.NewGrid(columns...)
	for _, r := range results {
		row := []table.Value{table.String(r.Group.Label), table.String(r.Column)}
		if len(s.GroupBy) > 0 {
			row = append(row, r.Group.Keys...)
		}
		if r.NotFound {
			row = append(row, table.Missing(), table.String("Column not found"))
		} else {
			row = append(row, r.Agg)
		}
		g.AddRow(row...)
	}
	return g
}

// assembleSections emits the grouped section layout used by distribution and
// duplicate tables: a header row naming the (group, column), then detail
// rows with blank context cells.
func assembleSections(results []customResult, hasErrors bool, payload []string, emit func(*report.Grid, customResult, []table.Value)) *report.Grid {
	columns := append([]string{"Group", "Column"}, payload...)
	if hasErrors {
		columns = append(columns, "Error")
	}
	g := report.NewGrid(columns...)
	blankPrefix := []table.Value{table.String(""), table.String("")}
	for _, r := range results {
		if r.NotFound {
			row := []table.Value{table.String(r.Group.Label), table.String(r.Column)}
			for range payload {
				row = append(row, table.Missing())
			}
			row = append(row, table.String("Column not found"))
			g.AddRow(row...)
			continue
		}
		header := []table.Value{table.String(r.Group.Label), table.String(r.Column)}
		for range payload {
			header = append(header, table.String(""))
		}
		g.AddRow(header...)
		emit(g, r, blankPrefix)
	}
	return g
}
