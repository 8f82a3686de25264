package algo

import (
	"math"
	"slices"

	"github.com/huangsam/genviz/schema"
)

// windowSize clamps n to the projection length; n <= 0 selects everything.
func windowSize(n, length int) int {
	if n <= 0 || n > length {
		return length
	}
	return n
}

// TopKeys returns the labels of the first n rows.
func TopKeys(p schema.RankedProjection, n int) []string {
	size := windowSize(n, len(p))
	keys := make([]string, size)
	for i := range size {
		keys[i] = p[i].Label
	}
	return keys
}

// TopValues returns the values of the first n rows rounded to one decimal.
func TopValues(p schema.RankedProjection, n int) [][]float64 {
	size := windowSize(n, len(p))
	values := make([][]float64, size)
	for i := range size {
		row := make([]float64, len(p[i].Values))
		for j, v := range p[i].Values {
			row[j] = Round1(v)
		}
		values[i] = row
	}
	return values
}

// Window combines TopKeys and TopValues.
func Window(p schema.RankedProjection, n int) schema.WindowedView {
	return schema.WindowedView{Keys: TopKeys(p, n), Values: TopValues(p, n)}
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DropColumns removes the last k columns of every row, e.g. to hide appended
// metrics when rendering raw group values. k larger than a row empties it.
func DropColumns(view schema.WindowedView, k int) schema.WindowedView {
	out := schema.WindowedView{Keys: slices.Clone(view.Keys), Values: make([][]float64, len(view.Values))}
	for i, row := range view.Values {
		kept := make([]float64, max(len(row)-max(k, 0), 0))
		copy(kept, row)
		out.Values[i] = kept
	}
	return out
}

// SelectColumn keeps a single column of every row. A negative idx counts from
// the end, so -1 isolates the trailing metric. Rows too short for idx become empty.
func SelectColumn(view schema.WindowedView, idx int) schema.WindowedView {
	out := schema.WindowedView{Keys: slices.Clone(view.Keys), Values: make([][]float64, len(view.Values))}
	for i, row := range view.Values {
		j := idx
		if j < 0 {
			j = len(row) + j
		}
		if j < 0 || j >= len(row) {
			out.Values[i] = []float64{}
			continue
		}
		out.Values[i] = []float64{row[j]}
	}
	return out
}
