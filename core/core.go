// Package core has core logic for loading survey exports and building charts from them.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/genviz/core/load"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/outwriter"
	"github.com/huangsam/genviz/schema"
)

// ExecutorFunc defines the function signature for executing different chart modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewLoader returns the dataset loader described by cfg, caching sources through mgr.
func NewLoader(cfg *contract.Config, mgr contract.CacheManager) *load.Loader {
	return load.NewLoader(load.NewSourceFetcher(cfg.FetchTimeout), mgr, cfg.CacheTTL)
}

// ExecuteChart builds a single chart from cfg.Source and prints it.
// It serves as the main entry point for the 'chart' mode.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.Kind == schema.RegionChart {
		return ExecuteRegions(ctx, cfg, mgr)
	}
	return executeChart(ctx, cfg, NewLoader(cfg, mgr))
}

// ExecuteRegions joins cfg.Source against the region list and prints it.
// It serves as the main entry point for the 'regions' mode.
func ExecuteRegions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeRegions(ctx, cfg, NewLoader(cfg, mgr))
}

// ExecuteDashboard builds every chart of cfg.Manifest and prints them in manifest order.
// All charts are printed even when some fail; the returned error reports the failures.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeDashboard(ctx, cfg, mgr, NewLoader(cfg, mgr))
}

func executeChart(ctx context.Context, cfg *contract.Config, loader contract.DatasetLoader) error {
	if cfg.Source == "" {
		return errors.New("a source file or URL is required")
	}
	start := time.Now()
	printHeader(ctx, cfg, func() { contract.LogChartHeader(os.Stdout, cfg) })

	chart, err := LoadChart(ctx, loader, contract.SourceName(cfg.Source), cfg.Source, OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteChart(chart, cfg, time.Since(start))
}

func executeRegions(ctx context.Context, cfg *contract.Config, loader contract.DatasetLoader) error {
	if cfg.Source == "" {
		return errors.New("a source file or URL is required")
	}
	start := time.Now()
	printHeader(ctx, cfg, func() { contract.LogChartHeader(os.Stdout, cfg) })

	result, err := LoadRegions(ctx, loader, contract.SourceName(cfg.Source), cfg.Source, OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRegions(result, cfg, time.Since(start))
}

func executeDashboard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, loader contract.DatasetLoader) error {
	if cfg.Manifest == "" {
		return errors.New("--manifest is required")
	}
	start := time.Now()

	manifest, err := contract.LoadManifest(cfg.Manifest)
	if err != nil {
		return err
	}
	printHeader(ctx, cfg, func() { contract.LogDashboardHeader(os.Stdout, cfg, len(manifest.Charts)) })

	result, err := RunDashboard(ctx, mgr, loader, manifest.Charts, cfg.Workers)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteDashboard(result, manifest.Title, cfg, time.Since(start)); err != nil {
		return err
	}
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(result.Outcomes))
	}
	return nil
}

// printHeader runs show for human-readable stdout output only.
func printHeader(ctx context.Context, cfg *contract.Config, show func()) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		return
	}
	show()
}
