package load

import (
	"github.com/huangsam/genviz/schema"
	"github.com/paulmach/orb/geojson"
)

// RegionNameProperty is the feature property holding a region's name in the boundary files.
const RegionNameProperty = "reg_name"

// DefaultBoundarySource is the public boundary file for the Italian regions.
const DefaultBoundarySource = "https://raw.githubusercontent.com/openpolis/geojson-italy/master/geojson/limits_IT_regions.geojson"

// ParseRegionNames returns the region names of a GeoJSON FeatureCollection in feature order.
// Duplicates are kept so the region join can report them.
func ParseRegionNames(doc []byte) ([]string, error) {
	fc, err := geojson.UnmarshalFeatureCollection(doc)
	if err != nil {
		return nil, schema.WrapError(schema.MalformedInput, err, "parse boundary collection")
	}
	if len(fc.Features) == 0 {
		return nil, schema.NewError(schema.MalformedInput, "boundary collection has no features")
	}

	names := make([]string, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := f.Properties.MustString(RegionNameProperty, "")
		if name == "" {
			return nil, schema.NewError(schema.MalformedInput, "feature %d has no %q property", i, RegionNameProperty)
		}
		names = append(names, name)
	}
	return names, nil
}
