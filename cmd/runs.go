package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/iocache"
	"github.com/huangsam/genviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runBackendFromViper reads the run tracking backend, treating an empty value as none.
func runBackendFromViper() (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if backendStr := viper.GetString("run-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	connStr := viper.GetString("run-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run tracking operations.
// This is used by commands that need run store access without full shared setup.
func runsSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runBackendFromViper()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no source cache for runs commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsMigrateSetup loads configuration for migrations without creating any table,
// so migrations can run on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runBackendFromViper()
	if err != nil {
		return err
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsCmd focused on dashboard run tracking.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage dashboard run tracking and exports",
	Long: `Manage the history of dashboard runs.

When --run-backend is set, every dashboard run is tracked, storing:
- Run metadata (timestamp, configuration, duration)
- One outcome per chart (sort, rows, keys, error kind)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  genviz runs status --run-backend sqlite

  # Export for analysis in pandas/DuckDB
  genviz runs export --run-backend sqlite --output-file runs`,
}

// runsClearCmd clears the run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all dashboard run history",
	Long: `Delete all stored dashboard runs and chart outcomes.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  genviz runs export --run-backend sqlite --output-file backup
  genviz runs clear --run-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseCaching()
		if err := iocache.ClearRuns(cfg.RunBackend, sqliteFilePath(cfg.RunDBConnect, contract.GetRunDBFilePath()), cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about dashboard run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Charts built across all runs, and how many failed
- Database table sizes

Examples:
  genviz runs status --run-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", errors.New("run tracking is disabled; set --run-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run tracking data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard runs to Parquet for BI tools and analytics",
	Long: `Export all stored dashboard runs and chart outcomes to Parquet.

Writes two files next to --output-file:
- <output-file>.dashboard_runs.parquet
- <output-file>.chart_outcomes.parquet

Requires: --output-file parameter

Examples:
  genviz runs export --run-backend sqlite --output-file runs
  duckdb -c "SELECT * FROM read_parquet('runs.chart_outcomes.parquet') LIMIT 10"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Failed to export run history", errors.New("--output-file is required"))
		}
		if err := iocache.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  genviz runs migrate --run-backend sqlite

  # Migrate to specific version
  genviz runs migrate --run-backend sqlite --target-version 1

  # Rollback everything
  genviz runs migrate --run-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
