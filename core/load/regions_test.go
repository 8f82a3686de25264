package load

import (
	"testing"

	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boundaryDoc = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"reg_name": "Lombardia", "reg_istat_code_num": 3},
     "geometry": {"type": "Point", "coordinates": [9.19, 45.46]}},
    {"type": "Feature", "properties": {"reg_name": "Sicilia"},
     "geometry": {"type": "Point", "coordinates": [13.36, 38.11]}}
  ]
}`

func TestParseRegionNames(t *testing.T) {
	names, err := ParseRegionNames([]byte(boundaryDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Lombardia", "Sicilia"}, names)
}

func TestParseRegionNamesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"type": "FeatureCollection", "features": [`},
		{"no features", `{"type": "FeatureCollection", "features": []}`},
		{"missing property", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {"name": "Lazio"}, "geometry": {"type": "Point", "coordinates": [12.5, 41.9]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegionNames([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrMalformedInput)
		})
	}
}
