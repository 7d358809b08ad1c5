package analysis

import (
	stderrors "errors"
	"fmt"
	"iter"
	"log"

	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/errors"
)

// runContext carries per-invocation state through the handlers. Nothing in
// it is shared between concurrent runs.
type runContext struct {
	warnings *Warnings
}

// handlerFunc computes one step's result grid. Returned errors become error
// blocks at the orchestrator boundary.
type handlerFunc func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error)

// handlers is the closed registry mapping step types to their handlers.
// Decoding already rejects unknown types; the registry check remains as the
// runtime backstop.
var handlers = map[string]handlerFunc{
	report.StepCustom: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runCustom(rc, tbl, step.(*report.CustomStep))
	},
	report.StepSummary: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runSummary(rc, tbl, step.(*report.SummaryStep))
	},
	report.StepCrosstab: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runCrosstab(rc, tbl, step.(*report.CrosstabStep))
	},
	report.StepOutlier: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runOutliers(rc, tbl, step.(*report.OutlierStep))
	},
	report.StepCorrelation: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runCorrelation(rc, tbl, step.(*report.CorrelationStep))
	},
	report.StepKeyDriver: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runKeyDriver(rc, tbl, step.(*report.KeyDriverStep))
	},
	report.StepTimeSeries: func(rc *runContext, tbl *table.Table, step report.Step) (*report.Grid, error) {
		return runTimeSeries(rc, tbl, step.(*report.TimeSeriesStep))
	},
}

// Validate rejects the whole request before any step runs: every filter
// column must resolve unambiguously against the table. Step shape and
// transformation whitelists are already enforced at decode time.
func Validate(tbl *table.Table, req *report.Request) error {
	for i, step := range req.Steps {
		base := step.Base()
		for _, f := range base.Filters {
			_, err := tbl.Column(f.Column)
			if stderrors.Is(err, table.ErrAmbiguousColumn) {
				return errors.ConfigInvalid(fmt.Sprintf("step %d (%s): filter column %q: %v", i, base.OutputName, f.Column, err))
			}
		}
	}
	return nil
}

// Run executes the request's steps in order, lazily yielding one block per
// step. A handler failure becomes an error block; remaining steps keep
// running. The consumer may stop early by breaking out of the iteration.
func Run(tbl *table.Table, req *report.Request) iter.Seq[report.Block] {
	return func(yield func(report.Block) bool) {
		rc := &runContext{warnings: NewWarnings()}
		for _, step := range req.Steps {
			if !yield(runStep(rc, tbl, step)) {
				return
			}
		}
	}
}

// RunAll collects every block eagerly, for callers that need the full set.
func RunAll(tbl *table.Table, req *report.Request) []report.Block {
	blocks := make([]report.Block, 0, len(req.Steps))
	for block := range Run(tbl, req) {
		blocks = append(blocks, block)
	}
	return blocks
}

func runStep(rc *runContext, tbl *table.Table, step report.Step) (block report.Block) {
	name := step.Base().OutputName
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in step %q: %v", name, r)
			block = report.ErrorBlock(
				fmt.Sprintf("Error in step: %s", name),
				"An unexpected error occurred during this analysis step.",
			)
		}
	}()

	handler, ok := handlers[step.StepType()]
	if !ok {
		return report.ErrorBlock(
			fmt.Sprintf("Error in step: %s", name),
			fmt.Sprintf("Unknown analysis type: %q", step.StepType()),
		)
	}
	grid, err := handler(rc, tbl, step)
	if err != nil {
		log.Printf("error processing step %q: %v", name, err)
		return report.ErrorBlock(
			fmt.Sprintf("Error in step: %s", name),
			"An unexpected error occurred during this analysis step.",
		)
	}
	return report.NewBlock(name, grid)
}
