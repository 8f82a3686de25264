// Package parquet provides data structures and functions for exporting genviz
// charts and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/genviz/schema"
	"github.com/parquet-go/parquet-go"
)

// DashboardRun represents a single dashboard run with metadata.
// This struct maps to the genviz_dashboard_runs database table.
type DashboardRun struct {
	// RunID is the UUID of the run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalCharts  int32 `parquet:"total_charts,snappy"`
	FailedCharts int32 `parquet:"failed_charts,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ChartOutcome represents the result of building one chart within a run.
// This struct maps to the genviz_chart_outcomes database table.
type ChartOutcome struct {
	RunID     string    `parquet:"run_id,snappy"`
	ChartName string    `parquet:"chart_name,snappy"`
	Source    string    `parquet:"source,snappy"`
	BuiltAt   time.Time `parquet:"built_at,snappy"`
	SortMode  string    `parquet:"sort_mode,snappy"`
	RowCount  int32     `parquet:"row_count,snappy"`

	// TopKey and TopValue describe the first ranked row (nullable for failed or empty charts)
	TopKey   *string  `parquet:"top_key,optional,snappy"`
	TopValue *float64 `parquet:"top_value,optional,snappy"`

	ErrorKind *string `parquet:"error_kind,optional,snappy"`
	ErrorMsg  *string `parquet:"error_msg,optional,snappy"`
}

// ChartCell is one value of a chart matrix in long format.
type ChartCell struct {
	Chart  string  `parquet:"chart,dict,snappy"`
	Title  string  `parquet:"title,dict,snappy"`
	Rank   int32   `parquet:"rank,snappy"`
	Key    string  `parquet:"key,snappy"`
	Column string  `parquet:"column,dict,snappy"`
	Value  float64 `parquet:"value,snappy"`
}

// RegionValue is one row of a region join. Value is null for regions without data.
type RegionValue struct {
	Chart  string   `parquet:"chart,dict,snappy"`
	Rank   int32    `parquet:"rank,snappy"`
	Region string   `parquet:"region,snappy"`
	Value  *float64 `parquet:"value,optional,snappy"`
	Bin    string   `parquet:"bin,dict,snappy"`
}

// WriteRows writes rows of any parquet-tagged struct type to w.
func WriteRows[T any](w io.Writer, rows []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet data: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteRows(file, rows)
}

// WriteDashboardRunsParquet writes a slice of DashboardRun structs to a Parquet file.
func WriteDashboardRunsParquet(data []DashboardRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteChartOutcomesParquet writes a slice of ChartOutcome structs to a Parquet file.
func WriteChartOutcomesParquet(data []ChartOutcome, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to DashboardRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []DashboardRun {
	result := make([]DashboardRun, len(records))
	for i, record := range records {
		result[i] = DashboardRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.DurationMs,
			TotalCharts:   record.TotalCharts,
			FailedCharts:  record.FailedCharts,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertChartOutcomeRecords converts schema.ChartOutcomeRecord to ChartOutcome for Parquet export.
func ConvertChartOutcomeRecords(records []schema.ChartOutcomeRecord) []ChartOutcome {
	result := make([]ChartOutcome, len(records))
	for i, record := range records {
		result[i] = ChartOutcome{
			RunID:     record.RunID,
			ChartName: record.ChartName,
			Source:    record.Source,
			BuiltAt:   record.BuiltAt,
			SortMode:  record.SortMode,
			RowCount:  record.RowCount,
			TopKey:    record.TopKey,
			TopValue:  record.TopValue,
			ErrorKind: record.ErrorKind,
			ErrorMsg:  record.ErrorMsg,
		}
	}
	return result
}

// ChartCells flattens a chart into one cell per key and column.
func ChartCells(chart schema.ChartResult) []ChartCell {
	cells := make([]ChartCell, 0, len(chart.Keys)*len(chart.XValues))
	for i, key := range chart.Keys {
		for j, value := range chart.Matrix[i] {
			column := ""
			if j < len(chart.XValues) {
				column = chart.XValues[j]
			}
			cells = append(cells, ChartCell{
				Chart:  chart.Name,
				Title:  chart.Title,
				Rank:   int32(i + 1),
				Key:    key,
				Column: column,
				Value:  value,
			})
		}
	}
	return cells
}

// RegionValues converts a region join into rows, mapping the sentinel to null.
func RegionValues(result schema.RegionResult) []RegionValue {
	rows := make([]RegionValue, len(result.Rows))
	for i, r := range schema.EnrichRegions(result.Rows) {
		rows[i] = RegionValue{
			Chart:  result.Name,
			Rank:   int32(r.Rank),
			Region: r.Region,
			Bin:    r.Bin,
		}
		if r.HasData() {
			value := r.Value
			rows[i].Value = &value
		}
	}
	return rows
}
