package analysis

import (
	"fmt"
	"sort"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/stat"
)

type keyDriverRow struct {
	Group    string
	Feature  string
	Coef     table.Value
	StdErr   table.Value
	PValue   table.Value
}

// runKeyDriver fits an ordinary-least-squares regression of the feature
// columns against the target per group. Categorical features are one-hot
// encoded with the first category dropped. Groups with too few rows to
// identify the model, or whose fit fails, are skipped without failing the
// step.
func runKeyDriver(rc *runContext, tbl *table.Table, s *report.KeyDriverStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}

	categorical := map[string]bool{}
	for _, c := range s.CategoricalFeatures {
		categorical[c] = true
	}
	var numericFeatures []string
	for _, f := range s.FeatureColumns {
		if !categorical[f] {
			numericFeatures = append(numericFeatures, f)
		}
	}

	var rows []keyDriverRow
	groupLabels := map[string]bool{}
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}
		names, x, y, err := designMatrix(group.Table, s, numericFeatures)
		if err != nil {
			return nil, err
		}
		if len(y) <= len(names)+1 {
			continue
		}

		result, err := stat.OLS(names, x, y, s.IncludeIntercept)
		if err != nil {
			rc.warnings.Warnf("keydriver-fit-"+group.Label, "regression fit failed for group %q: %v", group.Label, err)
			continue
		}

		for k, name := range result.Names {
			keep := result.PValues[k] < s.PValueThreshold
			if s.IncludeIntercept && name == "const" {
				keep = true
			}
			if !keep {
				continue
			}
			rows = append(rows, keyDriverRow{
				Group:   group.Label,
				Feature: name,
				Coef:    table.Number(stat.Round2(result.Coef[k])),
				StdErr:  table.Number(stat.Round2(result.StdErr[k])),
				PValue:  table.Number(stat.Round2(result.PValues[k])),
			})
		}
		rows = append(rows, keyDriverRow{
			Group:   group.Label,
			Feature: "R-squared",
			Coef:    table.Number(stat.Round2(result.RSquared)),
			StdErr:  table.Missing(),
			PValue:  table.Missing(),
		})
		groupLabels[group.Label] = true
	}

	if len(rows) == 0 {
		return report.NewGrid("Feature", "Coefficient", "Standard Error", "P-value"), nil
	}
	if len(groupLabels) > 1 {
		g := report.NewGrid("Group", "Feature", "Coefficient", "Standard Error", "P-value")
		for _, r := range rows {
			g.AddRow(table.String(r.Group), table.String(r.Feature), r.Coef, r.StdErr, r.PValue)
		}
		return g, nil
	}
	g := report.NewGrid("Feature", "Coefficient", "Standard Error", "P-value")
	for _, r := range rows {
		g.AddRow(table.String(r.Feature), r.Coef, r.StdErr, r.PValue)
	}
	return g, nil
}

// designMatrix prepares one group's regression inputs: rows with a missing
// target or feature are dropped, categorical features are one-hot encoded
// (sorted categories, first dropped), and remaining values are coerced to
// numbers with non-coercible rows dropped.
func designMatrix(tbl *table.Table, s *report.KeyDriverStep, numericFeatures []string) ([]string, [][]float64, []float64, error) {
	allCols := append([]string{s.TargetVariable}, s.FeatureColumns...)
	series := make(map[string]*table.Series, len(allCols))
	for _, name := range allCols {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, nil, nil, err
		}
		series[name] = col
	}

	var keptRows []int
	for i := 0; i < tbl.RowCount(); i++ {
		complete := true
		for _, name := range allCols {
			if series[name].At(i).IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keptRows = append(keptRows, i)
		}
	}

	// Dummy columns per categorical feature: sorted categories, drop-first.
	type dummy struct {
		feature  string
		category string
	}
	var dummies []dummy
	var names []string
	names = append(names, numericFeatures...)
	for _, feature := range s.CategoricalFeatures {
		distinct := map[string]bool{}
		for _, row := range keptRows {
			distinct[series[feature].At(row).Str()] = true
		}
		categories := make([]string, 0, len(distinct))
		for c := range distinct {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories[min(1, len(categories)):] {
			dummies = append(dummies, dummy{feature, c})
			names = append(names, fmt.Sprintf("%s_%s", feature, c))
		}
	}

	var x [][]float64
	var y []float64
	for _, row := range keptRows {
		target, ok := series[s.TargetVariable].At(row).AsFloat()
		if !ok {
			continue
		}
		features := make([]float64, 0, len(names))
		valid := true
		for _, name := range numericFeatures {
			f, ok := series[name].At(row).AsFloat()
			if !ok {
				valid = false
				break
			}
			features = append(features, f)
		}
		if !valid {
			continue
		}
		for _, d := range dummies {
			if series[d.feature].At(row).Str() == d.category {
				features = append(features, 1)
			} else {
				features = append(features, 0)
			}
		}
		x = append(x, features)
		y = append(y, target)
	}
	return names, x, y, nil
}
