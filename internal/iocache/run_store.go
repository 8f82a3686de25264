package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

// Table names for run tracking.
const (
	dashboardRunsTable = "genviz_dashboard_runs"
	chartOutcomesTable = "genviz_chart_outcomes"
	migrationsTable    = "genviz_schema_migrations"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetRunDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run store: %w", err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{dashboardRunsTable, getCreateDashboardRunsQuery(backend)},
		{chartOutcomesTable, getCreateChartOutcomesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateDashboardRunsQuery returns the CREATE TABLE query for genviz_dashboard_runs.
func getCreateDashboardRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(dashboardRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_charts INT NOT NULL DEFAULT 0,
				failed_charts INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_charts INT NOT NULL DEFAULT 0,
				failed_charts INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_charts INTEGER NOT NULL DEFAULT 0,
				failed_charts INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateChartOutcomesQuery returns the CREATE TABLE query for genviz_chart_outcomes.
func getCreateChartOutcomesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(chartOutcomesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				chart_name VARCHAR(255) NOT NULL,
				source VARCHAR(1024) NOT NULL,
				built_at DATETIME(6) NOT NULL,
				sort_mode VARCHAR(32) NOT NULL,
				row_count INT NOT NULL,
				top_key VARCHAR(255),
				top_value DOUBLE,
				error_kind VARCHAR(64),
				error_msg TEXT,
				PRIMARY KEY (run_id, chart_name)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				chart_name TEXT NOT NULL,
				source TEXT NOT NULL,
				built_at TIMESTAMPTZ NOT NULL,
				sort_mode TEXT NOT NULL,
				row_count INT NOT NULL,
				top_key TEXT,
				top_value DOUBLE PRECISION,
				error_kind TEXT,
				error_msg TEXT,
				PRIMARY KEY (run_id, chart_name)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				chart_name TEXT NOT NULL,
				source TEXT NOT NULL,
				built_at TEXT NOT NULL,
				sort_mode TEXT NOT NULL,
				row_count INTEGER NOT NULL,
				top_key TEXT,
				top_value REAL,
				error_kind TEXT,
				error_msg TEXT,
				PRIMARY KEY (run_id, chart_name)
			);
		`, quotedTableName)
	}
}

// BeginRun records the start of a dashboard run.
func (rs *RunStoreImpl) BeginRun(runID string, startTime time.Time, configParams map[string]any) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, start_time, config_params) VALUES (%s)`,
		quoteTableName(dashboardRunsTable, rs.backend), placeholderList(rs.backend, 3))
	if _, err := rs.db.Exec(query, runID, formatTime(startTime, rs.backend), string(configJSON)); err != nil {
		return fmt.Errorf("failed to insert dashboard run: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, totalCharts, failedCharts int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(dashboardRunsTable, rs.backend)

	// First, get the start_time to calculate duration
	start := timeScanner{backend: rs.backend}
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholderList(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}

	var durationMs int64
	if startTime != nil {
		durationMs = endTime.Sub(*startTime).Milliseconds()
	}

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_charts = $3, failed_charts = $4 WHERE run_id = $5`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_charts = ?, failed_charts = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalCharts, failedCharts, runID); err != nil {
		return fmt.Errorf("failed to update dashboard run: %w", err)
	}
	return nil
}

// RecordChartOutcome stores the result of building a single chart.
func (rs *RunStoreImpl) RecordChartOutcome(record schema.ChartOutcomeRecord) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, chart_name, source, built_at, sort_mode, row_count,
		                top_key, top_value, error_kind, error_msg)
		VALUES (%s)
	`, quoteTableName(chartOutcomesTable, rs.backend), placeholderList(rs.backend, 10))

	args := []any{
		record.RunID, record.ChartName, record.Source, formatTime(record.BuiltAt, rs.backend),
		record.SortMode, record.RowCount, record.TopKey, record.TopValue, record.ErrorKind, record.ErrorMsg,
	}
	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert chart outcome: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(dashboardRunsTable, rs.backend)

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastStart := timeScanner{backend: rs.backend}
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, lastStart.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := lastStart.value()
		if err != nil {
			return status, err
		}
		if lastRunTime != nil {
			status.LastRunTime = *lastRunTime
		}

		oldestStart := timeScanner{backend: rs.backend}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(oldestRunQuery).Scan(oldestStart.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestRunTime, err := oldestStart.value()
		if err != nil {
			return status, err
		}
		if oldestRunTime != nil {
			status.OldestRunTime = *oldestRunTime
		}

		totalsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_charts), 0), COALESCE(SUM(failed_charts), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(totalsQuery).Scan(&status.TotalCharts, &status.FailedCharts); err != nil {
			return status, fmt.Errorf("failed to get chart totals: %w", err)
		}
	}

	for _, table := range []string{dashboardRunsTable, chartOutcomesTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all dashboard runs, oldest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, total_charts, failed_charts, config_params
		FROM %s ORDER BY start_time, run_id`, quoteTableName(dashboardRunsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		start := timeScanner{backend: rs.backend}
		end := timeScanner{backend: rs.backend}

		if err := rows.Scan(&record.RunID, start.dest(), end.dest(), &record.DurationMs,
			&record.TotalCharts, &record.FailedCharts, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard run: %w", err)
		}

		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboard runs: %w", err)
	}
	return results, nil
}

// GetAllChartOutcomes retrieves every chart outcome, grouped by run.
func (rs *RunStoreImpl) GetAllChartOutcomes() ([]schema.ChartOutcomeRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, chart_name, source, built_at, sort_mode, row_count,
		top_key, top_value, error_kind, error_msg
		FROM %s ORDER BY run_id, built_at, chart_name`, quoteTableName(chartOutcomesTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ChartOutcomeRecord
	for rows.Next() {
		var record schema.ChartOutcomeRecord
		builtAt := timeScanner{backend: rs.backend}

		if err := rows.Scan(&record.RunID, &record.ChartName, &record.Source, builtAt.dest(),
			&record.SortMode, &record.RowCount, &record.TopKey, &record.TopValue,
			&record.ErrorKind, &record.ErrorMsg); err != nil {
			return nil, fmt.Errorf("failed to scan chart outcome: %w", err)
		}

		builtTime, err := builtAt.value()
		if err != nil {
			return nil, err
		}
		if builtTime != nil {
			record.BuiltAt = *builtTime
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chart outcomes: %w", err)
	}
	return results, nil
}
