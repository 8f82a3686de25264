package core

import (
	"github.com/huangsam/genviz/core/algo"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

// ChartOptions are the caller's overrides for a single chart.
// Zero values defer to the export's metadata.
type ChartOptions struct {
	Sort         schema.SortAttribute
	Layout       schema.Layout
	SortExplicit bool
	Top          int
	Kind         schema.ChartKind
	Regions      string // boundary source for region charts; empty uses schema.ItalianRegions
}

// PipelineConfig is the fully resolved description of one chart pipeline.
type PipelineConfig struct {
	Sort   schema.SortAttribute `validate:"required,sortmode"`
	Layout schema.Layout        `validate:"required,oneof=pivot raw"`
	Window int                  `validate:"gte=0"`
}

// RankKey is the ranking key implied by the sort attribute.
func (pc PipelineConfig) RankKey() schema.RankKey {
	return pc.Sort.RankKey()
}

// Validate checks that the configuration can drive a pipeline.
func (pc PipelineConfig) Validate() error {
	if err := contract.ValidateStruct(pc); err != nil {
		return schema.WrapError(schema.MalformedInput, err, "invalid pipeline config")
	}
	return nil
}

// OptionsFromConfig extracts chart options from the CLI configuration.
func OptionsFromConfig(cfg *contract.Config) ChartOptions {
	return ChartOptions{
		Sort:         cfg.Sort,
		Layout:       cfg.Layout,
		SortExplicit: cfg.SortExplicit,
		Top:          cfg.Top,
		Kind:         cfg.Kind,
		Regions:      cfg.Regions,
	}
}

// OptionsFromSpec extracts chart options from a dashboard manifest entry.
func OptionsFromSpec(spec schema.ChartSpec) (ChartOptions, error) {
	opts := ChartOptions{Top: spec.Top, Kind: spec.Kind, Regions: spec.Regions}
	if spec.Sort != "" {
		sort, layout, err := schema.ParseSortAttribute(spec.Sort)
		if err != nil {
			return ChartOptions{}, schema.WrapError(schema.MalformedInput, err, "chart %s sort", spec.Name)
		}
		opts.Sort, opts.Layout, opts.SortExplicit = sort, layout, true
	}
	return opts, nil
}

// ResolvePipeline merges caller options with the export's metadata.
// An explicit sort wins over metadata["sort"]; a positive Top wins over metadata["top_n_lemmas"].
func ResolvePipeline(meta schema.Metadata, opts ChartOptions) (PipelineConfig, error) {
	pc := PipelineConfig{Sort: schema.SortNone, Layout: schema.PivotLayout}

	switch {
	case opts.SortExplicit:
		pc.Sort, pc.Layout = opts.Sort, opts.Layout
	case meta.Sort() != "":
		sort, layout, err := schema.ParseSortAttribute(meta.Sort())
		if err != nil {
			return PipelineConfig{}, schema.WrapError(schema.MalformedInput, err, "metadata sort")
		}
		pc.Sort, pc.Layout = sort, layout
	}
	if pc.Layout == "" {
		pc.Layout = schema.PivotLayout
	}

	pc.Window = opts.Top
	if pc.Window <= 0 {
		pc.Window = meta.TopN()
	}

	return pc, pc.Validate()
}

// BuildChart runs layout, metric, rank and window over a raw dataset.
// It is synchronous and pure: identical inputs always give identical results.
func BuildChart(raw schema.RawDataset, pc PipelineConfig) (schema.ChartResult, error) {
	if err := pc.Validate(); err != nil {
		return schema.ChartResult{}, err
	}

	ds, err := layout(raw, pc)
	if err != nil {
		return schema.ChartResult{}, err
	}

	var ranked schema.RankedProjection
	if pc.Sort == schema.SortNone {
		ranked = algo.Unranked(ds)
	} else {
		ranked = algo.Rank(ds, pc.RankKey())
	}
	view := algo.Window(ranked, pc.Window)

	return schema.ChartResult{
		Title:   raw.Metadata.Title(),
		Units:   raw.Metadata.Units(),
		Kind:    schema.BarChart,
		Sort:    pc.Sort,
		XValues: append([]string{}, ds.Groups...),
		Keys:    view.Keys,
		Matrix:  view.Values,
	}, nil
}

// BuildRegions runs layout and metric, then joins the rows against a canonical region list.
// A nil canonical list selects schema.ItalianRegions.
func BuildRegions(raw schema.RawDataset, pc PipelineConfig, canonical []string) (schema.RegionResult, error) {
	if err := pc.Validate(); err != nil {
		return schema.RegionResult{}, err
	}
	if canonical == nil {
		canonical = schema.ItalianRegions()
	}

	ds, err := layout(raw, pc)
	if err != nil {
		return schema.RegionResult{}, err
	}
	rows, err := algo.JoinRegions(ds, canonical)
	if err != nil {
		return schema.RegionResult{}, err
	}

	return schema.RegionResult{
		Title: raw.Metadata.Title(),
		Units: raw.Metadata.Units(),
		Rows:  rows,
	}, nil
}

// layout shapes the raw dataset and appends the metric selected by the sort attribute.
func layout(raw schema.RawDataset, pc PipelineConfig) (schema.PivotedDataset, error) {
	var (
		ds  schema.PivotedDataset
		err error
	)
	if pc.Layout == schema.RawLayout {
		ds, err = algo.Raw(raw)
	} else {
		ds, err = algo.Pivot(raw)
	}
	if err != nil {
		return schema.PivotedDataset{}, err
	}
	return algo.AddMetric(ds, pc.Sort)
}
