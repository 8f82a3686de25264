//go:build basic

// Package integration contains integration tests for genviz.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database tests need Docker: go test -tags database ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chartJSON struct {
	Name    string      `json:"name"`
	Sort    string      `json:"sort"`
	XValues []string    `json:"x_values"`
	Keys    []string    `json:"keys"`
	Matrix  [][]float64 `json:"matrix"`
}

type regionsJSON struct {
	Rows []struct {
		Rank   int     `json:"rank"`
		Bin    string  `json:"bin"`
		Region string  `json:"region"`
		Value  float64 `json:"value"`
	} `json:"rows"`
}

var noCache = []string{"GENVIZ_CACHE_BACKEND=none"}

// TestChartVerification checks the ranked chart against values computed by hand.
func TestChartVerification(t *testing.T) {
	dir := writeFixtures(t)

	out, err := runGenviz(t, dir, noCache, "chart", "lemmas.json", "--output", "json")
	require.NoError(t, err)

	var chart chartJSON
	require.NoError(t, json.Unmarshal(out, &chart))

	// Sort comes from the export's metadata.
	assert.Equal(t, "Average", chart.Sort)
	assert.Equal(t, []string{"Baby Boomers", "Generation X", "Generation Z", "Average"}, chart.XValues)
	assert.Equal(t, []string{"boh", "magari", "cioè"}, chart.Keys)

	// One row per key; missing cohorts are zero-filled.
	require.Len(t, chart.Matrix, 3)
	assert.Equal(t, []float64{10, 18, 30, 19.3}, chart.Matrix[0])
	assert.Equal(t, []float64{20, 25, 0, 15}, chart.Matrix[1])
	assert.Equal(t, []float64{2, 0, 5, 2.3}, chart.Matrix[2])
}

// TestChartTopAndSortOverride checks that flags override the export's metadata.
func TestChartTopAndSortOverride(t *testing.T) {
	dir := writeFixtures(t)

	out, err := runGenviz(t, dir, noCache, "chart", "lemmas.json", "--output", "json", "--sort", "No sort", "--top", "2")
	require.NoError(t, err)

	var chart chartJSON
	require.NoError(t, json.Unmarshal(out, &chart))
	// Without a sort the cohorts stay rows in document order.
	assert.Equal(t, "None", chart.Sort)
	assert.Equal(t, []string{"Baby Boomers", "Generation X"}, chart.Keys)
	assert.Equal(t, []string{"boh", "magari", "cioè"}, chart.XValues)
}

// TestRegionsVerification checks that every region appears once and missing ones carry the sentinel.
func TestRegionsVerification(t *testing.T) {
	dir := writeFixtures(t)

	out, err := runGenviz(t, dir, noCache, "regions", "dialect.json", "--output", "json")
	require.NoError(t, err)

	var result regionsJSON
	require.NoError(t, json.Unmarshal(out, &result))
	require.Len(t, result.Rows, 20)

	seen := make(map[string]float64, len(result.Rows))
	for _, row := range result.Rows {
		_, dup := seen[row.Region]
		assert.False(t, dup, "region %s appears twice", row.Region)
		seen[row.Region] = row.Value
		if row.Value == -15 {
			assert.Equal(t, "no data", row.Bin)
		}
	}
	assert.Equal(t, 41.5, seen["Veneto"])
	assert.Equal(t, 33.25, seen["Sicilia"])
	assert.Equal(t, -15.0, seen["Lombardia"])
}

// TestDashboardRunTracking builds a dashboard with one failing chart and checks the recorded run.
func TestDashboardRunTracking(t *testing.T) {
	dir := writeFixtures(t)
	runDB := filepath.Join(dir, "runs.db")
	env := append([]string{
		"GENVIZ_RUN_BACKEND=sqlite",
		"GENVIZ_RUN_DB_CONNECT=" + runDB,
	}, noCache...)

	_, err := runGenviz(t, dir, env, "runs", "migrate")
	require.NoError(t, err)

	// The missing chart makes the command fail after printing the others.
	out, err := runGenviz(t, dir, env, "dashboard", "--manifest", "dashboard.yaml", "--output", "json")
	require.Error(t, err)
	assert.Contains(t, string(out), `"lemmas"`)
	assert.Contains(t, string(out), `"source_unavailable"`)

	out, err = runGenviz(t, dir, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Total Charts Built: 3 (1 failed)")

	_, err = runGenviz(t, dir, env, "runs", "export", "--output-file", filepath.Join(dir, "runs"))
	require.NoError(t, err)
	for _, suffix := range []string{".dashboard_runs.parquet", ".chart_outcomes.parquet"} {
		info, err := os.Stat(filepath.Join(dir, "runs"+suffix))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	out, err = runGenviz(t, dir, env, "runs", "clear")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "cleared"))
}
