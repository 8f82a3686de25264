package cmd

import (
	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"github.com/spf13/cobra"
)

// regionsCmd joins a per-region export against the region list.
var regionsCmd = &cobra.Command{
	Use:   "regions <source>",
	Short: "Join a per-region export against the known regions",
	Long: `Load a per-region survey export and join it against the region list, so every
region appears exactly once. Regions missing from the export get the sentinel
value -15 and the "No data" colour bin.

The region list is built in, or read from the boundary GeoJSON named by --regions.

Examples:
  # Join against the built-in region list
  genviz regions data/dialect_by_region.json

  # Use a boundary file and write the joined table as JSON
  genviz regions data/dialect_by_region.json --regions limits_IT_regions.geojson --output json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		cfg.Kind = schema.RegionChart
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRegions(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot join regions", err)
		}
	},
}
