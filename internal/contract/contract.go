// Package contract provides interfaces and shared utilities for the internal architecture of genviz.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/genviz/schema"
)

// Fetcher retrieves the raw bytes behind a source reference (file path or URL).
// This allows the load layer to be tested without network or disk access.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// DatasetLoader turns source references into parsed datasets.
type DatasetLoader interface {
	// LoadDataset fetches and parses a survey export.
	LoadDataset(ctx context.Context, source string) (schema.RawDataset, error)

	// LoadRegionNames reads the region names of a boundary GeoJSON document.
	LoadRegionNames(ctx context.Context, source string) ([]string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSourceStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking dashboard runs and their chart outcomes.
type RunStore interface {
	// BeginRun records the start of a dashboard run.
	BeginRun(runID string, startTime time.Time, configParams map[string]any) error

	// EndRun updates the run with completion data.
	EndRun(runID string, endTime time.Time, totalCharts, failedCharts int) error

	// RecordChartOutcome stores the result of building a single chart.
	RecordChartOutcome(record schema.ChartOutcomeRecord) error

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every stored run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllChartOutcomes returns every stored chart outcome.
	GetAllChartOutcomes() ([]schema.ChartOutcomeRecord, error)

	// Close closes the underlying connection.
	Close() error
}
