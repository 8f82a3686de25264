package cmd

import (
	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd builds one chart from a single survey export.
var chartCmd = &cobra.Command{
	Use:   "chart <source>",
	Short: "Build a ranked chart from one survey export",
	Long: `Load one survey export (a local file or an http(s) URL), pivot it into a
label-by-cohort matrix and print the ranked, windowed result.

The sort attribute comes from --sort, or from the export's metadata when the
flag is omitted. --top 0 keeps every label unless the export declares top_n_lemmas.

Examples:
  # Rank lemmas by their average across cohorts
  genviz chart data/lemmas.json --sort Average --top 10

  # Keep the original row order and show the raw matrix as a heatmap
  genviz chart data/dialect_usage.json --sort "No sort" --kind heatmap

  # Render an interactive HTML chart
  genviz chart https://example.org/exports/lemmas.json --output html --output-file lemmas.html`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build chart", err)
		}
	},
}
