package algo

import (
	"math"

	"github.com/huangsam/genviz/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AddAverages returns a copy of ds with the mean of every row appended under
// "Average". The mean covers every value already in the row, so applying it
// twice folds the first average into the second.
func AddAverages(ds schema.PivotedDataset) (schema.PivotedDataset, error) {
	return appendMetric(ds, schema.MetricAverage, func(r *schema.Row) {
		r.Values = append(r.Values, stat.Mean(r.Values, nil))
	})
}

// AddAverageDeltas returns a copy of ds with the signed mean of successive
// differences appended under "Average delta". The magnitude is kept on the
// row as a sort key. Deltas run over every value already in the row, so
// calling it after AddAverages folds "Average" into the trend.
func AddAverageDeltas(ds schema.PivotedDataset) (schema.PivotedDataset, error) {
	return appendMetric(ds, schema.MetricAverageDelta, func(r *schema.Row) {
		delta := AverageDelta(r.Values)
		r.Values = append(r.Values, delta)
		r.AbsDelta = math.Abs(delta)
		r.HasAbsDelta = true
	})
}

// AddMetric dispatches on the sort attribute. SortNone returns an unchanged copy.
func AddMetric(ds schema.PivotedDataset, attr schema.SortAttribute) (schema.PivotedDataset, error) {
	switch attr {
	case schema.SortAverage:
		return AddAverages(ds)
	case schema.SortAverageDelta:
		return AddAverageDeltas(ds)
	default:
		return ds.Clone(), nil
	}
}

// AverageDelta is the mean of v[i]-v[i-1]. Fewer than two values yield 0.
func AverageDelta(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	deltas := make([]float64, len(values)-1)
	floats.SubTo(deltas, values[1:], values[:len(values)-1])
	return floats.Sum(deltas) / float64(len(deltas))
}

func appendMetric(ds schema.PivotedDataset, name string, apply func(*schema.Row)) (schema.PivotedDataset, error) {
	out := schema.PivotedDataset{
		Groups: ds.Groups.With(name),
		Rows:   make([]schema.Row, len(ds.Rows)),
	}
	for i, r := range ds.Rows {
		if len(r.Values) == 0 {
			return schema.PivotedDataset{}, schema.NewError(schema.EmptyGroup,
				"label %q has no group values to compute %q", r.Label, name)
		}
		row := r.Clone()
		apply(&row)
		out.Rows[i] = row
	}
	return out, nil
}
