package core

import (
	"context"
	"fmt"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

// LoadChart loads a source and builds one chart from it.
// Every call reloads and recomputes; nothing is carried over from earlier calls.
func LoadChart(ctx context.Context, loader contract.DatasetLoader, name, source string, opts ChartOptions) (schema.ChartResult, error) {
	raw, err := loader.LoadDataset(ctx, source)
	if err != nil {
		return schema.ChartResult{}, err
	}
	pc, err := ResolvePipeline(raw.Metadata, opts)
	if err != nil {
		return schema.ChartResult{}, fmt.Errorf("chart %s: %w", name, err)
	}
	result, err := BuildChart(raw, pc)
	if err != nil {
		return schema.ChartResult{}, fmt.Errorf("chart %s: %w", name, err)
	}
	result.Name = name
	if opts.Kind != "" && opts.Kind != schema.RegionChart {
		result.Kind = opts.Kind
	}
	return result, nil
}

// LoadRegions loads a source and joins it against the canonical region list.
// When opts.Regions names a boundary source, the canonical list is read from it.
func LoadRegions(ctx context.Context, loader contract.DatasetLoader, name, source string, opts ChartOptions) (schema.RegionResult, error) {
	raw, err := loader.LoadDataset(ctx, source)
	if err != nil {
		return schema.RegionResult{}, err
	}

	var canonical []string
	if opts.Regions != "" {
		canonical, err = loader.LoadRegionNames(ctx, opts.Regions)
		if err != nil {
			return schema.RegionResult{}, err
		}
	}

	pc, err := ResolvePipeline(raw.Metadata, opts)
	if err != nil {
		return schema.RegionResult{}, fmt.Errorf("regions %s: %w", name, err)
	}
	result, err := BuildRegions(raw, pc, canonical)
	if err != nil {
		return schema.RegionResult{}, fmt.Errorf("regions %s: %w", name, err)
	}
	result.Name = name
	return result, nil
}

// BuildSpec loads and builds a single manifest entry. Failures are captured
// in the outcome rather than returned so one chart cannot affect another.
func BuildSpec(ctx context.Context, loader contract.DatasetLoader, spec schema.ChartSpec) schema.ChartOutcome {
	outcome := schema.ChartOutcome{Name: spec.Name}

	opts, err := OptionsFromSpec(spec)
	if err != nil {
		return outcome.WithError(err)
	}

	if spec.Kind == schema.RegionChart {
		regions, err := LoadRegions(ctx, loader, spec.Name, spec.Source, opts)
		if err != nil {
			return outcome.WithError(err)
		}
		outcome.Regions = &regions
		return outcome
	}

	chart, err := LoadChart(ctx, loader, spec.Name, spec.Source, opts)
	if err != nil {
		return outcome.WithError(err)
	}
	outcome.Chart = &chart
	return outcome
}
