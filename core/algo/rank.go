package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/genviz/schema"
)

// Rank orders the rows of ds by key in descending order.
// The sort is stable, so equal keys keep their first-seen order and ranking
// an already ranked projection returns the same order.
func Rank(ds schema.PivotedDataset, key schema.RankKey) schema.RankedProjection {
	return RankProjection(schema.RankedProjection(ds.Rows), key)
}

// RankProjection re-ranks an existing projection. The input is not modified.
func RankProjection(p schema.RankedProjection, key schema.RankKey) schema.RankedProjection {
	out := make(schema.RankedProjection, len(p))
	for i, r := range p {
		out[i] = r.Clone()
	}
	slices.SortStableFunc(out, func(a, b schema.Row) int {
		return cmp.Compare(rankValue(b, key), rankValue(a, key))
	})
	return out
}

// Unranked returns the rows of ds in their current order as a projection.
func Unranked(ds schema.PivotedDataset) schema.RankedProjection {
	out := make(schema.RankedProjection, len(ds.Rows))
	for i, r := range ds.Rows {
		out[i] = r.Clone()
	}
	return out
}

func rankValue(r schema.Row, key schema.RankKey) float64 {
	if key == schema.RankByAbsDelta && r.HasAbsDelta {
		return r.AbsDelta
	}
	return r.Last()
}
