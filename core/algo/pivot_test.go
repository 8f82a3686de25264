package algo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivot(t *testing.T) {
	raw := dataset(
		group("A", "x", 10, "y", 20),
		group("B", "x", 5),
	)

	got, err := Pivot(raw)
	require.NoError(t, err)

	want := schema.PivotedDataset{
		Groups: schema.GroupOrder{"A", "B"},
		Rows: []schema.Row{
			{Label: "x", Values: []float64{10, 5}},
			{Label: "y", Values: []float64{20, 0}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pivot() mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotFirstSeenOrder(t *testing.T) {
	raw := dataset(
		group("Baby Boomers", "mho", 19, "nonno", 8.2),
		group("Generation Y", "tipo", 11, "mho", 22),
		group("Generation Z", "okay", 7.9, "tipo", 12),
	)

	got, err := Pivot(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"mho", "nonno", "tipo", "okay"}, got.Labels())
}

func TestPivotCoverage(t *testing.T) {
	raw := dataset(
		group("G1", "a", 1, "b", 2),
		group("G2", "c", 3),
		group("G3", "a", 4, "d", 5, "b", 6),
	)

	got, err := Pivot(raw)
	require.NoError(t, err)

	pairs := 0
	for _, g := range raw.Groups {
		pairs += len(g.Entries)
	}
	nonZero := 0
	for _, r := range got.Rows {
		assert.Len(t, r.Values, len(raw.Groups), "label %s", r.Label)
		for _, v := range r.Values {
			if v != 0 {
				nonZero++
			}
		}
	}
	assert.Equal(t, pairs, nonZero)
	assert.Len(t, got.Rows, 4)
}

func TestPivotDoesNotMutateInput(t *testing.T) {
	raw := dataset(group("A", "x", 1), group("B", "y", 2))
	snapshot := dataset(group("A", "x", 1), group("B", "y", 2))

	_, err := Pivot(raw)
	require.NoError(t, err)

	if diff := cmp.Diff(snapshot, raw); diff != "" {
		t.Errorf("Pivot() mutated input (-before +after):\n%s", diff)
	}
}

func TestPivotDuplicateLabelLastWins(t *testing.T) {
	raw := dataset(group("A", "x", 1, "x", 9))
	got, err := Pivot(raw)
	require.NoError(t, err)

	row, ok := got.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, []float64{9}, row.Values)
}

func TestPivotErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  schema.RawDataset
	}{
		{"no groups", dataset()},
		{"unnamed group", dataset(group("", "x", 1))},
		{"nan value", dataset(group("A", "x", math.NaN()))},
		{"inf value", dataset(group("A", "x", math.Inf(1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pivot(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrMalformedInput)
		})
	}
}

func TestPivotEmptyGroupsStillValid(t *testing.T) {
	got, err := Pivot(dataset(group("A"), group("B")))
	require.NoError(t, err)
	assert.Equal(t, schema.GroupOrder{"A", "B"}, got.Groups)
	assert.Empty(t, got.Rows)
}

func TestRaw(t *testing.T) {
	raw := dataset(
		group("Lombardia", "delta", 3.2, "share", 40),
		group("Veneto", "delta", -1.5, "share", 55),
	)

	got, err := Raw(raw)
	require.NoError(t, err)

	want := schema.PivotedDataset{
		Groups: schema.GroupOrder{"delta", "share"},
		Rows: []schema.Row{
			{Label: "Lombardia", Values: []float64{3.2, 40}},
			{Label: "Veneto", Values: []float64{-1.5, 55}},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Raw() mismatch (-want +got):\n%s", diff)
	}

	_, err = Raw(dataset())
	assert.ErrorIs(t, err, schema.ErrMalformedInput)
}
