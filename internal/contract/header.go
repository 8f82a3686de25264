package contract

import (
	"fmt"
	"io"
)

// LogChartHeader prints a concise, 2-line header before a chart is built.
func LogChartHeader(w io.Writer, cfg *Config) {
	sort := "from metadata"
	if cfg.SortExplicit {
		sort = string(cfg.Sort)
	}
	top := "all"
	if cfg.Top > 0 {
		top = fmt.Sprintf("%d", cfg.Top)
	}

	// Line 1: The chart summary (Source and Kind)
	_, _ = fmt.Fprintf(w, "🔎 Source: %s (Kind: %s)\n", SourceName(cfg.Source), cfg.Kind)

	// Line 2: How rows are ranked and cut
	_, _ = fmt.Fprintf(w, "📐 Sort: %s, Top: %s\n", sort, top)
}

// LogDashboardHeader prints a header for a dashboard run.
func LogDashboardHeader(w io.Writer, cfg *Config, charts int) {
	_, _ = fmt.Fprintf(w, "🔎 Manifest: %s\n", cfg.Manifest)
	_, _ = fmt.Fprintf(w, "📊 Building %d charts with %d workers\n", charts, cfg.Workers)
}
