package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"golang.org/x/sync/errgroup"
)

// RunDashboard builds every chart of a manifest concurrently, at most workers at a time.
// Charts share no state: a failing chart is reported in its outcome and never
// cancels its siblings. Outcomes keep manifest order. When mgr has a run store,
// the run and every outcome are recorded there.
func RunDashboard(ctx context.Context, mgr contract.CacheManager, loader contract.DatasetLoader, specs []schema.ChartSpec, workers int) (schema.DashboardResult, error) {
	if len(specs) == 0 {
		return schema.DashboardResult{}, schema.NewError(schema.MalformedInput, "dashboard has no charts")
	}

	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)
	logger := slog.With("run_id", runID)

	// --- 0. Begin Run Tracking (if configured) ---
	var runStore contract.RunStore
	if mgr != nil {
		runStore = mgr.GetRunStore()
	}
	startTime := time.Now()
	if runStore != nil {
		configParams := map[string]any{
			"charts":  len(specs),
			"workers": workers,
		}
		if err := runStore.BeginRun(runID, startTime, configParams); err != nil {
			logger.Warn("run tracking initialization failed", "error", err)
			runStore = nil
		}
	}
	logger.Info("dashboard run started", "charts", len(specs), "workers", workers)

	// --- 1. Build charts ---
	outcomes := make([]schema.ChartOutcome, len(specs))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, spec := range specs {
		g.Go(func() error {
			chartStart := time.Now()
			outcome := BuildSpec(ctx, loader, spec)
			outcomes[i] = outcome

			if outcome.OK() {
				logger.Debug("chart built", "chart", spec.Name, "duration", time.Since(chartStart))
			} else {
				logger.Warn("chart failed", "chart", spec.Name, "kind", outcome.ErrKind, "error", outcome.ErrMsg)
			}
			if runStore != nil {
				if err := runStore.RecordChartOutcome(outcomeRecord(runID, spec, outcome, time.Now())); err != nil {
					logger.Warn("chart outcome tracking failed", "chart", spec.Name, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	result := schema.DashboardResult{RunID: runID, Outcomes: outcomes}

	// --- 2. End Run Tracking ---
	if runStore != nil {
		if err := runStore.EndRun(runID, time.Now(), len(outcomes), result.Failed()); err != nil {
			logger.Warn("failed to finalize run tracking", "error", err)
		}
	}
	logger.Info("dashboard run finished",
		"charts", len(outcomes),
		"failed", result.Failed(),
		"duration", time.Since(startTime))

	return result, nil
}

// outcomeRecord flattens a chart outcome into its run store row.
func outcomeRecord(runID string, spec schema.ChartSpec, outcome schema.ChartOutcome, builtAt time.Time) schema.ChartOutcomeRecord {
	record := schema.ChartOutcomeRecord{
		RunID:     runID,
		ChartName: spec.Name,
		Source:    spec.Source,
		BuiltAt:   builtAt,
		SortMode:  spec.Sort,
	}

	switch {
	case !outcome.OK():
		kind := string(outcome.ErrKind)
		msg := outcome.ErrMsg
		record.ErrorKind = &kind
		record.ErrorMsg = &msg
	case outcome.Chart != nil:
		record.SortMode = string(outcome.Chart.Sort)
		record.RowCount = int32(len(outcome.Chart.Keys))
		if !outcome.Chart.Empty() && len(outcome.Chart.Matrix[0]) > 0 {
			key := outcome.Chart.Keys[0]
			row := outcome.Chart.Matrix[0]
			value := row[len(row)-1]
			record.TopKey = &key
			record.TopValue = &value
		}
	case outcome.Regions != nil:
		best := -1
		for i, r := range outcome.Regions.Rows {
			if !r.HasData() {
				continue
			}
			record.RowCount++
			if best < 0 || r.Value > outcome.Regions.Rows[best].Value {
				best = i
			}
		}
		if best >= 0 {
			key := outcome.Regions.Rows[best].Region
			value := outcome.Regions.Rows[best].Value
			record.TopKey = &key
			record.TopValue = &value
		}
	}
	return record
}
