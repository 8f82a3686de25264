// Package schema has models, constants and typed errors for all parts of genviz.
package schema

import "slices"

// Metadata is the open descriptive block that travels with every dataset.
// Only a handful of keys are interpreted; everything else is passed through.
type Metadata map[string]any

// LabelValue is a single measured label inside a group.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GroupRecord is one cohort (e.g. a generation) with its label values in document order.
type GroupRecord struct {
	Name    string       `json:"name"`
	Entries []LabelValue `json:"entries"`
}

// RawDataset is a survey export as loaded from its source, grouped by cohort.
type RawDataset struct {
	Metadata Metadata      `json:"metadata"`
	Groups   []GroupRecord `json:"groups"`
}

// GroupNames returns the cohort names in document order.
func (r RawDataset) GroupNames() []string {
	names := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		names[i] = g.Name
	}
	return names
}

// GroupOrder is the positional header of every row: group names followed by
// any appended metric names. Values of this type are never mutated in place.
type GroupOrder []string

// With returns a new GroupOrder with name appended. The receiver is left untouched.
func (g GroupOrder) With(name string) GroupOrder {
	out := make(GroupOrder, len(g), len(g)+1)
	copy(out, g)
	return append(out, name)
}

// Clone returns an independent copy.
func (g GroupOrder) Clone() GroupOrder {
	return slices.Clone(g)
}

// Row is one label with its values laid out against a GroupOrder.
type Row struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`

	// AbsDelta is the magnitude of the average delta, used only as a sort key.
	AbsDelta    float64 `json:"-"`
	HasAbsDelta bool    `json:"-"`
}

// Last returns the trailing value of the row, or 0 for an empty row.
func (r Row) Last() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1]
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	r.Values = slices.Clone(r.Values)
	return r
}

// PivotedDataset is label-major data where every row has one value per entry in Groups.
type PivotedDataset struct {
	Groups GroupOrder `json:"groups"`
	Rows   []Row      `json:"rows"`
}

// Lookup returns the row for label, if present.
func (p PivotedDataset) Lookup(label string) (Row, bool) {
	for _, r := range p.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// Labels returns row labels in their current order.
func (p PivotedDataset) Labels() []string {
	labels := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		labels[i] = r.Label
	}
	return labels
}

// Clone returns a deep copy of the dataset.
func (p PivotedDataset) Clone() PivotedDataset {
	rows := make([]Row, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = r.Clone()
	}
	return PivotedDataset{Groups: p.Groups.Clone(), Rows: rows}
}

// RankedProjection is an ordered sequence of rows produced by ranking.
type RankedProjection []Row

// WindowedView is the top-N slice of a projection as parallel key and value lists.
type WindowedView struct {
	Keys   []string    `json:"keys"`
	Values [][]float64 `json:"values"`
}

// RegionRow is one entry of a choropleth join.
type RegionRow struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// HasData reports whether the row carries a real value rather than the sentinel.
func (r RegionRow) HasData() bool {
	return r.Value != Sentinel
}
