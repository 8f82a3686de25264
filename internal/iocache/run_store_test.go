package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunStore(t *testing.T) contract.RunStore {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr[T any](v T) *T { return &v }

func TestRunStoreLifecycle(t *testing.T) {
	store := newTestRunStore(t)
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.BeginRun("run-1", start, map[string]any{"manifest": "dashboard.yaml", "workers": 2}))
	require.NoError(t, store.RecordChartOutcome(schema.ChartOutcomeRecord{
		RunID:     "run-1",
		ChartName: "lemmas",
		Source:    "data/lemmas.json",
		BuiltAt:   start.Add(100 * time.Millisecond),
		SortMode:  "Average",
		RowCount:  12,
		TopKey:    ptr("ciao"),
		TopValue:  ptr(42.5),
	}))
	require.NoError(t, store.RecordChartOutcome(schema.ChartOutcomeRecord{
		RunID:     "run-1",
		ChartName: "broken",
		Source:    "data/broken.json",
		BuiltAt:   start.Add(200 * time.Millisecond),
		SortMode:  "None",
		ErrorKind: ptr("malformed_input"),
		ErrorMsg:  ptr("row 3 has no label"),
	}))
	require.NoError(t, store.EndRun("run-1", start.Add(1500*time.Millisecond), 2, 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, "run-1", run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, start.Add(1500*time.Millisecond).Equal(*run.EndTime))
	require.NotNil(t, run.DurationMs)
	assert.Equal(t, int32(1500), *run.DurationMs)
	assert.Equal(t, int32(2), run.TotalCharts)
	assert.Equal(t, int32(1), run.FailedCharts)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"manifest":"dashboard.yaml","workers":2}`, *run.ConfigParams)

	outcomes, err := store.GetAllChartOutcomes()
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "lemmas", outcomes[0].ChartName)
	assert.Equal(t, "ciao", *outcomes[0].TopKey)
	assert.InDelta(t, 42.5, *outcomes[0].TopValue, 1e-9)
	assert.Nil(t, outcomes[0].ErrorKind)
	assert.Equal(t, "broken", outcomes[1].ChartName)
	assert.Nil(t, outcomes[1].TopKey)
	assert.Equal(t, "malformed_input", *outcomes[1].ErrorKind)
	assert.True(t, start.Add(200*time.Millisecond).Equal(outcomes[1].BuiltAt))
}

func TestRunStoreStatus(t *testing.T) {
	store := newTestRunStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[dashboardRunsTable])

	base := time.Date(2026, 5, 4, 9, 59, 59, 0, time.UTC)
	// The later run starts on a fractional second to exercise ordering of stored timestamps
	require.NoError(t, store.BeginRun("early", base, nil))
	require.NoError(t, store.EndRun("early", base.Add(time.Second), 3, 0))
	require.NoError(t, store.BeginRun("late", base.Add(1500*time.Millisecond), nil))
	require.NoError(t, store.EndRun("late", base.Add(3*time.Second), 2, 2))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, "late", status.LastRunID)
	assert.True(t, base.Equal(status.OldestRunTime))
	assert.Equal(t, 5, status.TotalCharts)
	assert.Equal(t, 2, status.FailedCharts)
	assert.Equal(t, int64(2), status.TableSizes[dashboardRunsTable])
	assert.Equal(t, int64(0), status.TableSizes[chartOutcomesTable])
}

func TestRunStoreEndUnknownRun(t *testing.T) {
	store := newTestRunStore(t)
	assert.Error(t, store.EndRun("missing", time.Now(), 0, 0))
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.BeginRun("x", time.Now(), nil))
	assert.NoError(t, store.EndRun("x", time.Now(), 1, 0))
	assert.NoError(t, store.RecordChartOutcome(schema.ChartOutcomeRecord{RunID: "x"}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestClearRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestExportRuns(t *testing.T) {
	store := newTestRunStore(t)
	prefix := filepath.Join(t.TempDir(), "history")

	var buf bytes.Buffer
	err := exportRuns(store, prefix, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dashboard runs")

	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.BeginRun("run-1", start, map[string]any{"workers": 1}))
	require.NoError(t, store.RecordChartOutcome(schema.ChartOutcomeRecord{
		RunID: "run-1", ChartName: "lemmas", Source: "lemmas.json", BuiltAt: start, SortMode: "None", RowCount: 3,
	}))
	require.NoError(t, store.EndRun("run-1", start.Add(time.Second), 1, 0))

	require.NoError(t, exportRuns(store, prefix, &buf))
	assert.Contains(t, buf.String(), "Exported 1 dashboard runs")
	assert.Contains(t, buf.String(), "Exported 1 chart outcomes")

	for _, suffix := range []string{".dashboard_runs.parquet", ".chart_outcomes.parquet"} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, exportRuns(store, "", &buf))
}

func TestPrintRunStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintRunStatus(&buf, schema.RunStatus{
		Backend:      "sqlite",
		Connected:    true,
		TotalRuns:    1,
		LastRunID:    "run-1",
		LastRunTime:  time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local),
		TotalCharts:  4,
		FailedCharts: 1,
		TableSizes:   map[string]int64{chartOutcomesTable: 4, dashboardRunsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: run-1")
	assert.Contains(t, out, "Total Charts Built: 4 (1 failed)")
	// Tables print in name order
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(chartOutcomesTable)), bytes.Index(buf.Bytes(), []byte(dashboardRunsTable)))
}
