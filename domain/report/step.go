package report

import (
	"fmt"

	"tabreport/domain/core"
)

// Step type discriminants, as they appear in the JSON "type" field.
const (
	StepCustom      = "custom"
	StepSummary     = "summary_stats"
	StepCrosstab    = "crosstab"
	StepOutlier     = "outlier_detection"
	StepKeyDriver   = "key_driver"
	StepTimeSeries  = "time_series"
	StepCorrelation = "correlation"
)

// Step is one analysis step of a request. Concrete step types embed BaseStep
// and add their own fields; decoding validates each step before it is
// accepted, so a Step held by a Request is always well-formed.
type Step interface {
	StepType() string
	Base() BaseStep
	validate() error
}

// BaseStep carries the fields every analysis step shares.
type BaseStep struct {
	OutputName string   `json:"output_name"`
	Filters    []Filter `json:"filters,omitempty"`
	GroupBy    []string `json:"group_by,omitempty"`
}

// Base returns the shared step fields.
func (b BaseStep) Base() BaseStep { return b }

func (b BaseStep) validateBase() error {
	if b.OutputName == "" {
		return core.NewValidationError("output_name", "must not be empty")
	}
	return validateFilters(b.Filters, true)
}

// Operation is a custom-analysis aggregate operation.
type Operation string

const (
	OpAverage     Operation = "average"
	OpSum         Operation = "sum"
	OpMedian      Operation = "median"
	OpDuplicates  Operation = "duplicate_count"
	OpDistribution Operation = "distribution"
	OpUniqueList  Operation = "list_unique_values"
)

func (o Operation) Valid() bool {
	switch o {
	case OpAverage, OpSum, OpMedian, OpDuplicates, OpDistribution, OpUniqueList:
		return true
	}
	return false
}

// allowAll permits every transformation action (the custom workbench).
var allowAll = map[Action]bool{
	ActionSplitAndExplode: true,
	ActionToRootNode:      true,
	ActionStripWhitespace: true,
	ActionToNumeric:       true,
	ActionFillNA:          true,
}

// allowSummary restricts summary statistics to transforms that keep values
// numeric-coercible.
var allowSummary = map[Action]bool{
	ActionToNumeric:       true,
	ActionFillNA:          true,
	ActionSplitAndExplode: true,
	ActionStripWhitespace: true,
}

// allowCrosstab restricts crosstabs to reshaping transforms only.
var allowCrosstab = map[Action]bool{
	ActionSplitAndExplode: true,
	ActionStripWhitespace: true,
}

// CustomStep runs one generic aggregate operation over target columns.
type CustomStep struct {
	BaseStep
	TargetColumns   []string         `json:"target_columns"`
	Transformations []Transformation `json:"transformations"`
	Operation       Operation        `json:"operation"`
	PostFilters     []Filter         `json:"post_transformation_filters,omitempty"`
}

func (s *CustomStep) StepType() string { return StepCustom }

func (s *CustomStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if len(s.TargetColumns) < 1 {
		return core.NewValidationError("target_columns", "at least one column required")
	}
	if !s.Operation.Valid() {
		return core.NewValidationError("operation", fmt.Sprintf("unknown operation %q", s.Operation))
	}
	for _, t := range s.Transformations {
		if err := t.validate(allowAll); err != nil {
			return err
		}
	}
	return validateFilters(s.PostFilters, false)
}

// SummaryStep computes descriptive statistics per numeric column.
type SummaryStep struct {
	BaseStep
	NumericColumns        []string               `json:"numeric_columns"`
	ColumnTransformations []ColumnTransformation `json:"column_transformations,omitempty"`
}

func (s *SummaryStep) StepType() string { return StepSummary }

func (s *SummaryStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if len(s.NumericColumns) < 1 {
		return core.NewValidationError("numeric_columns", "at least one column required")
	}
	return validateColumnTransformations(s.ColumnTransformations, allowSummary)
}

// Percent is the crosstab percentage normalization mode.
type Percent string

const (
	PercentNone    Percent = "none"
	PercentIndex   Percent = "index"
	PercentColumns Percent = "columns"
	PercentAll     Percent = "all"
)

func (p Percent) Valid() bool {
	switch p {
	case PercentNone, PercentIndex, PercentColumns, PercentAll:
		return true
	}
	return false
}

// CrosstabStep builds a contingency table between two columns.
type CrosstabStep struct {
	BaseStep
	IndexColumn           string                 `json:"index_column"`
	ColumnToCompare       string                 `json:"column_to_compare"`
	ColumnTransformations []ColumnTransformation `json:"column_transformations,omitempty"`
	ShowPercentages       Percent                `json:"show_percentages"`
}

func (s *CrosstabStep) StepType() string { return StepCrosstab }

func (s *CrosstabStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if s.IndexColumn == "" || s.ColumnToCompare == "" {
		return core.NewValidationError("crosstab", "index_column and column_to_compare are required")
	}
	if !s.ShowPercentages.Valid() {
		return core.NewValidationError("show_percentages", fmt.Sprintf("unknown mode %q", s.ShowPercentages))
	}
	return validateColumnTransformations(s.ColumnTransformations, allowCrosstab)
}

// OutlierMethod selects the outlier bound rule.
type OutlierMethod string

const (
	MethodIQR    OutlierMethod = "iqr"
	MethodZScore OutlierMethod = "z-score"
)

// OutlierStep flags values outside statistical bounds per target column.
type OutlierStep struct {
	BaseStep
	TargetColumns []string      `json:"target_columns"`
	Method        OutlierMethod `json:"method"`
	Threshold     float64       `json:"threshold"`
}

func (s *OutlierStep) StepType() string { return StepOutlier }

func (s *OutlierStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if len(s.TargetColumns) < 1 {
		return core.NewValidationError("target_columns", "at least one column required")
	}
	if s.Method != MethodIQR && s.Method != MethodZScore {
		return core.NewValidationError("method", fmt.Sprintf("unknown method %q", s.Method))
	}
	if s.Threshold <= 0 {
		return core.NewValidationError("threshold", "must be positive")
	}
	return nil
}

// KeyDriverStep fits an OLS regression of features against a target.
type KeyDriverStep struct {
	BaseStep
	TargetVariable      string   `json:"target_variable"`
	FeatureColumns      []string `json:"feature_columns"`
	CategoricalFeatures []string `json:"categorical_features,omitempty"`
	PValueThreshold     float64  `json:"p_value_threshold"`
	IncludeIntercept    bool     `json:"include_intercept"`
}

func (s *KeyDriverStep) StepType() string { return StepKeyDriver }

func (s *KeyDriverStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if s.TargetVariable == "" {
		return core.NewValidationError("target_variable", "must not be empty")
	}
	if len(s.FeatureColumns) < 1 {
		return core.NewValidationError("feature_columns", "at least one column required")
	}
	if s.PValueThreshold <= 0 || s.PValueThreshold > 1 {
		return core.NewValidationError("p_value_threshold", "must be in (0, 1]")
	}
	return nil
}

// Metric is the time-series aggregation metric.
type Metric string

const (
	MetricSum     Metric = "sum"
	MetricAverage Metric = "average"
	MetricCount   Metric = "count"
)

// Frequency is a resample period.
type Frequency string

const (
	FreqDay     Frequency = "day"
	FreqWeek    Frequency = "week"
	FreqMonth   Frequency = "month-end"
	FreqQuarter Frequency = "quarter-end"
	FreqYear    Frequency = "year-end"
)

// frequencyAliases maps the short period codes some clients send onto the
// canonical names.
var frequencyAliases = map[Frequency]Frequency{
	"D":  FreqDay,
	"W":  FreqWeek,
	"ME": FreqMonth,
	"QE": FreqQuarter,
	"YE": FreqYear,
}

// TimeSeriesStep resamples a metric over a date column.
type TimeSeriesStep struct {
	BaseStep
	MetricColumn string    `json:"metric_column"`
	Metric       Metric    `json:"metric"`
	DateColumn   string    `json:"date_column"`
	Frequency    Frequency `json:"frequency"`
}

func (s *TimeSeriesStep) StepType() string { return StepTimeSeries }

func (s *TimeSeriesStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if s.MetricColumn == "" || s.DateColumn == "" {
		return core.NewValidationError("time_series", "metric_column and date_column are required")
	}
	switch s.Metric {
	case MetricSum, MetricAverage, MetricCount:
	default:
		return core.NewValidationError("metric", fmt.Sprintf("unknown metric %q", s.Metric))
	}
	if canonical, ok := frequencyAliases[s.Frequency]; ok {
		s.Frequency = canonical
	}
	switch s.Frequency {
	case FreqDay, FreqWeek, FreqMonth, FreqQuarter, FreqYear:
	default:
		return core.NewValidationError("frequency", fmt.Sprintf("unknown frequency %q", s.Frequency))
	}
	return nil
}

// CorrelationStep scores pairwise association among the requested columns.
type CorrelationStep struct {
	BaseStep
	Columns   []string `json:"columns"`
	Threshold float64  `json:"threshold"`
}

func (s *CorrelationStep) StepType() string { return StepCorrelation }

func (s *CorrelationStep) validate() error {
	if err := s.validateBase(); err != nil {
		return err
	}
	if len(s.Columns) < 2 {
		return core.NewValidationError("columns", "at least two columns required")
	}
	return nil
}
