package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/genviz/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads back every row of type T from a parquet file.
func readAll[T any](t *testing.T, r io.ReaderAt) []T {
	t.Helper()
	reader := parquet.NewGenericReader[T](r)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"dashboard run", new(DashboardRun), []string{"run_id", "start_time", "end_time", "run_duration_ms", "total_charts", "failed_charts", "config_params"}},
		{"chart outcome", new(ChartOutcome), []string{"run_id", "chart_name", "source", "built_at", "sort_mode", "row_count", "top_key", "top_value", "error_kind", "error_msg"}},
		{"chart cell", new(ChartCell), []string{"chart", "title", "rank", "key", "column", "value"}},
		{"region value", new(RegionValue), []string{"chart", "rank", "region", "value", "bin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteDashboardRunsParquet(t *testing.T) {
	now := time.Now()
	end := now.Add(2 * time.Second)
	duration := int32(2000)
	params := `{"charts":2,"workers":4}`
	records := []schema.RunRecord{
		{RunID: "run-1", StartTime: now, EndTime: &end, DurationMs: &duration, TotalCharts: 2, FailedCharts: 1, ConfigParams: &params},
		{RunID: "run-2", StartTime: now}, // Still running - nullable fields
	}

	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteDashboardRunsParquet(ConvertRunRecords(records), outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows := readAll[DashboardRun](t, file)
	require.Len(t, rows, 2)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, int32(1), rows[0].FailedCharts)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Microsecond)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteChartOutcomesParquet(t *testing.T) {
	key := "cioè"
	value := 6.0
	kind := string(schema.EmptyGroup)
	msg := "label has no values"
	records := []schema.ChartOutcomeRecord{
		{RunID: "run-1", ChartName: "lemmas", Source: "lemmas.json", BuiltAt: time.Now(), SortMode: "Average delta", RowCount: 10, TopKey: &key, TopValue: &value},
		{RunID: "run-1", ChartName: "broken", Source: "broken.json", BuiltAt: time.Now(), ErrorKind: &kind, ErrorMsg: &msg},
	}

	outputPath := filepath.Join(t.TempDir(), "outcomes.parquet")
	require.NoError(t, WriteChartOutcomesParquet(ConvertChartOutcomeRecords(records), outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows := readAll[ChartOutcome](t, file)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].TopKey)
	assert.Equal(t, key, *rows[0].TopKey)
	assert.InDelta(t, value, *rows[0].TopValue, 1e-9)
	assert.Nil(t, rows[0].ErrorKind)
	require.NotNil(t, rows[1].ErrorKind)
	assert.Equal(t, kind, *rows[1].ErrorKind)
	assert.Nil(t, rows[1].TopKey)
}

func TestChartCells(t *testing.T) {
	chart := schema.ChartResult{
		Name:    "sentiment",
		Title:   "Sentiment",
		XValues: []string{"A", "B", "Average"},
		Keys:    []string{"y", "x"},
		Matrix:  [][]float64{{4, 6, 5}, {1, 2, 1.5}},
	}

	cells := ChartCells(chart)
	require.Len(t, cells, 6)
	assert.Equal(t, ChartCell{Chart: "sentiment", Title: "Sentiment", Rank: 1, Key: "y", Column: "A", Value: 4}, cells[0])
	assert.Equal(t, ChartCell{Chart: "sentiment", Title: "Sentiment", Rank: 2, Key: "x", Column: "Average", Value: 1.5}, cells[5])

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, cells))
	rows := readAll[ChartCell](t, bytes.NewReader(buf.Bytes()))
	assert.Equal(t, cells, rows)
}

func TestRegionValuesMapsSentinelToNull(t *testing.T) {
	result := schema.RegionResult{
		Name: "dialect",
		Rows: []schema.RegionRow{{Region: "Veneto", Value: 42}, {Region: "Molise", Value: schema.Sentinel}},
	}

	rows := RegionValues(result)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Value)
	assert.Equal(t, 42.0, *rows[0].Value)
	assert.Equal(t, "40%+", rows[0].Bin)
	assert.Nil(t, rows[1].Value)
	assert.Equal(t, schema.BinNoData, rows[1].Bin)
	assert.Equal(t, int32(2), rows[1].Rank)
}

func TestWriteRowsEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteDashboardRunsParquet([]DashboardRun{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
