package algo

import "github.com/huangsam/genviz/schema"

// JoinRegions maps a canonical region list onto ds. Output order follows
// canonical; each region takes the first value of its row, and regions with
// no row (or an empty one) get schema.Sentinel.
func JoinRegions(ds schema.PivotedDataset, canonical []string) ([]schema.RegionRow, error) {
	seen := make(map[string]struct{}, len(canonical))
	for _, region := range canonical {
		if _, dup := seen[region]; dup {
			return nil, schema.NewError(schema.DuplicateRegion, "region %q appears more than once", region)
		}
		seen[region] = struct{}{}
	}

	byLabel := make(map[string]schema.Row, len(ds.Rows))
	for _, r := range ds.Rows {
		if _, ok := byLabel[r.Label]; !ok {
			byLabel[r.Label] = r
		}
	}

	rows := make([]schema.RegionRow, len(canonical))
	for i, region := range canonical {
		value := schema.Sentinel
		if r, ok := byLabel[region]; ok && len(r.Values) > 0 {
			value = r.Values[0]
		}
		rows[i] = schema.RegionRow{Region: region, Value: value}
	}
	return rows, nil
}
