package cmd

import (
	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/spf13/cobra"
)

// dashboardCmd builds every chart named by a manifest.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Build every chart of a dashboard manifest",
	Long: `Build all charts listed in a dashboard manifest concurrently and print them in
manifest order.

A chart that fails is reported with its error and does not stop the others.
The command exits non-zero when at least one chart failed. When --run-backend is
set, every run and chart outcome is recorded for later inspection with 'genviz runs'.

Examples:
  # Build the dashboard with four workers
  genviz dashboard --manifest dashboard.yaml --workers 4

  # Export every chart to one workbook
  genviz dashboard -m dashboard.yaml --output xlsx --output-file dashboard.xlsx

  # Track runs in SQLite
  genviz dashboard -m dashboard.yaml --run-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Dashboard incomplete", err)
		}
	},
}
