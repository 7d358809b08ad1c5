package analysis

import (
	"time"

	"tabreport/domain/report"
	"tabreport/domain/table"
)

type timeSeriesRow struct {
	Group     string
	Timestamp table.Value
	Value     table.Value
}

// runTimeSeries resamples a metric over a date column per group. Rows whose
// date or metric fails to convert are dropped; empty bins are filled with 0
// for sum and count but omitted for averages.
func runTimeSeries(rc *runContext, tbl *table.Table, s *report.TimeSeriesStep) (*report.Grid, error) {
	groups, err := prepareGroups(tbl, s.Base())
	if err != nil {
		return nil, err
	}

	var rows []timeSeriesRow
	for _, group := range groups {
		if group.Table.IsEmpty() {
			continue
		}

		var missing []string
		if !group.Table.HasColumn(s.DateColumn) {
			missing = append(missing, s.DateColumn)
		}
		if !group.Table.HasColumn(s.MetricColumn) {
			missing = append(missing, s.MetricColumn)
		}
		if len(missing) > 0 {
			msg := "Missing required columns for time series: "
			for i, m := range missing {
				if i > 0 {
					msg += ", "
				}
				msg += m
			}
			rows = append(rows, timeSeriesRow{group.Label, table.String("N/A"), table.String(msg)})
			continue
		}

		dateCol, err := group.Table.Column(s.DateColumn)
		if err != nil {
			return nil, err
		}
		metricCol, err := group.Table.Column(s.MetricColumn)
		if err != nil {
			return nil, err
		}

		type sample struct {
			bucket time.Time
			value  float64
		}
		var samples []sample
		for i := 0; i < dateCol.Len(); i++ {
			ts, okDate := dateCol.At(i).AsTime()
			v, okMetric := metricCol.At(i).AsFloat()
			if !okDate || !okMetric {
				continue
			}
			samples = append(samples, sample{bucketEnd(ts, s.Frequency), v})
		}
		if len(samples) == 0 {
			rows = append(rows, timeSeriesRow{group.Label, table.String("N/A"), table.String("No valid data after date/metric conversion and dropping NaNs.")})
			continue
		}

		sums := map[time.Time]float64{}
		counts := map[time.Time]float64{}
		first, last := samples[0].bucket, samples[0].bucket
		for _, smp := range samples {
			sums[smp.bucket] += smp.value
			counts[smp.bucket]++
			if smp.bucket.Before(first) {
				first = smp.bucket
			}
			if smp.bucket.After(last) {
				last = smp.bucket
			}
		}

		buckets := bucketRange(first, last, s.Frequency)
		emitted := 0
		for _, b := range buckets {
			n := counts[b]
			if n == 0 && s.Metric == report.MetricAverage {
				continue
			}
			var v float64
			switch s.Metric {
			case report.MetricSum:
				v = sums[b]
			case report.MetricAverage:
				v = sums[b] / n
			case report.MetricCount:
				v = n
			}
			rows = append(rows, timeSeriesRow{group.Label, table.Timestamp(b), table.Number(v)})
			emitted++
		}
		if emitted == 0 {
			rows = append(rows, timeSeriesRow{group.Label, table.String("N/A"), table.String("Time series result is empty after resampling and aggregation.")})
		}
	}

	grouped := len(s.GroupBy) > 0
	if len(rows) == 0 {
		if grouped {
			return report.NewGrid("Group", "Timestamp", "Value"), nil
		}
		return report.NewGrid("Column", "Timestamp", "Value"), nil
	}

	if grouped {
		g := report.NewGrid("Group", "Timestamp", "Value")
		for _, r := range rows {
			g.AddRow(table.String(r.Group), r.Timestamp, r.Value)
		}
		return g, nil
	}

	// Ungrouped layout: one header row naming the metric column, then the
	// resampled points.
	g := report.NewGrid("Column", "Timestamp", "Value")
	g.AddStrings(s.MetricColumn, "", "")
	for _, r := range rows {
		g.AddRow(table.String(""), r.Timestamp, r.Value)
	}
	return g, nil
}

// bucketEnd maps a timestamp onto the end of its resample period. Weeks end
// on Sunday; month, quarter and year periods end on their last day.
func bucketEnd(ts time.Time, freq report.Frequency) time.Time {
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	switch freq {
	case report.FreqDay:
		return day
	case report.FreqWeek:
		offset := (7 - int(day.Weekday())) % 7
		return day.AddDate(0, 0, offset)
	case report.FreqMonth:
		firstOfNext := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	case report.FreqQuarter:
		quarterEndMonth := ((int(day.Month())-1)/3)*3 + 3
		firstOfNext := time.Date(day.Year(), time.Month(quarterEndMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	default: // year-end
		return time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	}
}

// nextBucket advances one resample period.
func nextBucket(b time.Time, freq report.Frequency) time.Time {
	switch freq {
	case report.FreqDay:
		return b.AddDate(0, 0, 1)
	case report.FreqWeek:
		return b.AddDate(0, 0, 7)
	case report.FreqMonth:
		return bucketEnd(b.AddDate(0, 0, 1), report.FreqMonth)
	case report.FreqQuarter:
		return bucketEnd(b.AddDate(0, 0, 1), report.FreqQuarter)
	default:
		return time.Date(b.Year()+1, 12, 31, 0, 0, 0, 0, time.UTC)
	}
}

// bucketRange enumerates every period end from first to last inclusive, so
// empty bins inside the observed span are representable.
func bucketRange(first, last time.Time, freq report.Frequency) []time.Time {
	var out []time.Time
	for b := first; !b.After(last); b = nextBucket(b, freq) {
		out = append(out, b)
	}
	return out
}
