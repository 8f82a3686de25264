// Package algo holds the pure reshaping steps of a chart pipeline.
// Every function returns fresh values and never mutates its input.
package algo

import (
	"math"

	"github.com/huangsam/genviz/schema"
)

// Pivot transposes group-major data into label-major data.
// Labels keep first-seen order across groups and every label receives one
// value per group, in group order, with missing combinations set to zero.
func Pivot(raw schema.RawDataset) (schema.PivotedDataset, error) {
	if len(raw.Groups) == 0 {
		return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput, "dataset has no groups")
	}

	groups := make(schema.GroupOrder, len(raw.Groups))
	index := make(map[string]int)
	var rows []schema.Row

	for gi, g := range raw.Groups {
		if g.Name == "" {
			return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput, "group %d has no name", gi)
		}
		groups[gi] = g.Name
		for _, e := range g.Entries {
			if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
				return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput,
					"group %q label %q has non-finite value", g.Name, e.Label)
			}
			if _, ok := index[e.Label]; !ok {
				index[e.Label] = len(rows)
				rows = append(rows, schema.Row{
					Label:  e.Label,
					Values: make([]float64, len(raw.Groups)),
				})
			}
		}
	}

	// Second pass fills values; a repeated label inside a group keeps its last value.
	for gi, g := range raw.Groups {
		for _, e := range g.Entries {
			rows[index[e.Label]].Values[gi] = e.Value
		}
	}

	return schema.PivotedDataset{Groups: groups, Rows: rows}, nil
}

// Raw lays out a dataset without pivoting: each group becomes a row and its
// label values are kept in document order. The header is the label order of
// the first group.
func Raw(raw schema.RawDataset) (schema.PivotedDataset, error) {
	if len(raw.Groups) == 0 {
		return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput, "dataset has no groups")
	}

	var header schema.GroupOrder
	rows := make([]schema.Row, 0, len(raw.Groups))
	for gi, g := range raw.Groups {
		if g.Name == "" {
			return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput, "group %d has no name", gi)
		}
		values := make([]float64, len(g.Entries))
		for i, e := range g.Entries {
			if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
				return schema.PivotedDataset{}, schema.NewError(schema.MalformedInput,
					"group %q label %q has non-finite value", g.Name, e.Label)
			}
			values[i] = e.Value
			if gi == 0 {
				header = append(header, e.Label)
			}
		}
		rows = append(rows, schema.Row{Label: g.Name, Values: values})
	}

	return schema.PivotedDataset{Groups: header, Rows: rows}, nil
}
