package report

import (
	"encoding/json"
	"fmt"

	"tabreport/domain/core"
)

// DefaultOutputFilename is used when a request does not name its output.
const DefaultOutputFilename = "generated_report.csv"

// Request is a full analysis job: an output name plus the ordered step list.
// Unmarshalling validates every step, so a decoded Request is ready to run.
type Request struct {
	OutputFilename string `json:"output_filename"`
	Steps          []Step `json:"analysis_steps"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		OutputFilename string            `json:"output_filename"`
		Steps          []json.RawMessage `json:"analysis_steps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.OutputFilename = raw.OutputFilename
	if r.OutputFilename == "" {
		r.OutputFilename = DefaultOutputFilename
	}
	r.Steps = make([]Step, 0, len(raw.Steps))
	for i, msg := range raw.Steps {
		step, err := DecodeStep(msg)
		if err != nil {
			return fmt.Errorf("analysis_steps[%d]: %w", i, err)
		}
		r.Steps = append(r.Steps, step)
	}
	return nil
}

// DecodeStep decodes one analysis step, dispatching on its "type" field.
// Defaults are applied before decoding and the result is validated, so any
// returned Step is well-formed.
func DecodeStep(data []byte) (Step, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var step Step
	switch head.Type {
	case StepCustom:
		step = &CustomStep{}
	case StepSummary:
		step = &SummaryStep{}
	case StepCrosstab:
		step = &CrosstabStep{ShowPercentages: PercentNone}
	case StepOutlier:
		step = &OutlierStep{Method: MethodIQR, Threshold: 1.5}
	case StepKeyDriver:
		step = &KeyDriverStep{PValueThreshold: 0.05, IncludeIntercept: true}
	case StepTimeSeries:
		step = &TimeSeriesStep{}
	case StepCorrelation:
		step = &CorrelationStep{Threshold: 0.2}
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownStepType, head.Type)
	}

	if err := json.Unmarshal(data, step); err != nil {
		return nil, err
	}
	if err := step.validate(); err != nil {
		return nil, fmt.Errorf("%s step: %w", head.Type, err)
	}
	return step, nil
}
