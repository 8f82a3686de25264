package load

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentimentDoc = `{
  "metadata": {"title": "Sentiment", "sort": "Average delta", "top_n_lemmas": 10, "units": "%"},
  "data": {
    "Generation Z": {"positive": 40, "negative": 20.5},
    "Baby Boomers": {"neutral": 12, "positive": 30}
  }
}`

func TestParseDocumentPreservesOrder(t *testing.T) {
	ds, err := ParseDocument([]byte(sentimentDoc))
	require.NoError(t, err)

	want := []schema.GroupRecord{
		{Name: "Generation Z", Entries: []schema.LabelValue{{Label: "positive", Value: 40}, {Label: "negative", Value: 20.5}}},
		{Name: "Baby Boomers", Entries: []schema.LabelValue{{Label: "neutral", Value: 12}, {Label: "positive", Value: 30}}},
	}
	if diff := cmp.Diff(want, ds.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Sentiment", ds.Metadata.Title())
	assert.Equal(t, "Average delta", ds.Metadata.Sort())
	assert.Equal(t, "%", ds.Metadata.Units())
	assert.Equal(t, 10, ds.Metadata.TopN())
}

func TestParseDocumentOptionalMetadata(t *testing.T) {
	ds, err := ParseDocument([]byte(`{"data": {"A": {}}}`))
	require.NoError(t, err)
	assert.Empty(t, ds.Metadata)
	require.Len(t, ds.Groups, 1)
	assert.Empty(t, ds.Groups[0].Entries)

	ds, err = ParseDocument([]byte(`{"metadata": null, "data": {}}`))
	require.NoError(t, err)
	assert.Empty(t, ds.Groups)
}

func TestParseDocumentRepeatedGroup(t *testing.T) {
	ds, err := ParseDocument([]byte(`{"data": {"A": {"x": 1, "y": 2}, "B": {"x": 3}, "A": {"x": 5}}}`))
	require.NoError(t, err)

	// The first position is kept, the last entries win.
	want := []schema.GroupRecord{
		{Name: "A", Entries: []schema.LabelValue{{Label: "x", Value: 5}}},
		{Name: "B", Entries: []schema.LabelValue{{Label: "x", Value: 3}}},
	}
	if diff := cmp.Diff(want, ds.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"A", "B"}, ds.GroupNames())
}

func TestParseDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"data": `},
		{"array root", `[1, 2]`},
		{"missing data", `{"metadata": {}}`},
		{"data not object", `{"data": [1]}`},
		{"metadata not object", `{"metadata": "x", "data": {}}`},
		{"group not object", `{"data": {"A": 3}}`},
		{"string leaf", `{"data": {"A": {"x": "12"}}}`},
		{"null leaf", `{"data": {"A": {"x": null}}}`},
		{"nested leaf", `{"data": {"A": {"x": {"y": 1}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrMalformedInput)
		})
	}
}
