package algo

import (
	"github.com/huangsam/genviz/schema"
)

// dataset builds a RawDataset from group names and their ordered label values.
func dataset(groups ...schema.GroupRecord) schema.RawDataset {
	return schema.RawDataset{Metadata: schema.Metadata{}, Groups: groups}
}

func group(name string, pairs ...any) schema.GroupRecord {
	g := schema.GroupRecord{Name: name}
	for i := 0; i+1 < len(pairs); i += 2 {
		g.Entries = append(g.Entries, schema.LabelValue{Label: pairs[i].(string), Value: toFloat(pairs[i+1])})
	}
	return g
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("unsupported value type")
}
