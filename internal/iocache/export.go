package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/parquet"
)

// ExecuteRunExport exports the global run history to Parquet files prefixed by outputFile.
func ExecuteRunExport(outputFile string) error {
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is disabled; set --run-backend to export runs")
	}
	return exportRuns(store, outputFile, os.Stdout)
}

func exportRuns(store contract.RunStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no dashboard runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total dashboard runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total chart outcomes: %d\n", status.TableSizes[chartOutcomesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve dashboard runs: %w", err)
	}
	outcomes, err := store.GetAllChartOutcomes()
	if err != nil {
		return fmt.Errorf("failed to retrieve chart outcomes: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".dashboard_runs.parquet"
	if err := parquet.WriteDashboardRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write dashboard runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d dashboard runs to: %s\n", len(parquetRuns), runsFile)

	parquetOutcomes := parquet.ConvertChartOutcomeRecords(outcomes)
	outcomesFile := outputFile + ".chart_outcomes.parquet"
	if err := parquet.WriteChartOutcomesParquet(parquetOutcomes, outcomesFile); err != nil {
		return fmt.Errorf("failed to write chart outcomes: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d chart outcomes to: %s\n", len(parquetOutcomes), outcomesFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be loaded with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
