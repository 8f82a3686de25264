package outwriter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"usage percentage", 1, 42.25, "42.2"},
		{"precision 2", 2, 17.456, "17.46"},
		{"negative delta", 1, -3.36, "-3.4"},
		{"sentinel", 1, -15, "-15.0"},
		{"negative precision", -2, 7.6, "8"},
		{"missing value", 1, math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, valueFormatter(tt.precision)(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "region row",
			data: schema.RegionRow{Region: "Veneto", Value: 41.5},
			expected: `{
  "region": "Veneto",
  "value": 41.5
}
`,
		},
		{
			name:     "title keeps ampersand",
			data:     "Boh & magari <2023>",
			expected: `"Boh & magari <2023>"` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode json")
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		records  [][]string
		expected string
	}{
		{
			name:     "chart rows",
			header:   []string{"rank", "key", "Generation Z"},
			records:  [][]string{{"1", "boh", "42.0"}, {"2", "magari", "17.5"}},
			expected: "rank,key,Generation Z\n1,boh,42.0\n2,magari,17.5\n",
		},
		{
			name:     "header only",
			header:   []string{"rank", "region"},
			expected: "rank,region\n",
		},
		{
			name:     "quoted region",
			header:   []string{"region", "bin"},
			records:  [][]string{{"Trentino-Alto Adige, Südtirol", "5-10%"}},
			expected: "region,bin\n\"Trentino-Alto Adige, Südtirol\",5-10%\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCSV(&buf, tt.header, tt.records))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriteCSVSurfacesFlushError(t *testing.T) {
	err := writeCSV(failingWriter{}, []string{"region"}, [][]string{{"Lazio"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte{})
		return err
	}, "table")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	chart := schema.ChartResult{Name: "lemmas", Title: "Top lemmas", Keys: []string{"boh"}}

	err := writeWithFile(path, func(w io.Writer) error {
		return writeJSON(w, chart)
	}, "json")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var got schema.ChartResult
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, "lemmas", got.Name)
	assert.Equal(t, []string{"boh"}, got.Keys)
}

func TestWriteWithFileRenderErrorCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.csv")

	err := writeWithFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("rank,key\n"))
		return assert.AnError
	}, "csv")

	assert.Equal(t, assert.AnError, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial output expected")
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	err := writeWithFile("/nonexistent/path/file.txt", func(w io.Writer) error {
		return nil
	}, "csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open csv output")
}
