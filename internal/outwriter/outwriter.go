// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteChart prints a chart using the configured output format.
func (ow *OutWriter) WriteChart(chart schema.ChartResult, cfg *contract.Config, duration time.Duration) error {
	return PrintChartResult(chart, cfg, duration)
}

// WriteRegions prints a region join using the configured output format.
func (ow *OutWriter) WriteRegions(result schema.RegionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintRegionResult(result, cfg, duration)
}

// WriteDashboard prints every outcome of a dashboard run using the configured output format.
func (ow *OutWriter) WriteDashboard(result schema.DashboardResult, title string, cfg *contract.Config, duration time.Duration) error {
	return PrintDashboardResult(result, title, cfg, duration)
}

// getMaxTableLabelWidth calculates the maximum width for row labels in table output
// based on terminal width and the number of value columns.
func getMaxTableLabelWidth(cfg *contract.Config, valueColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank column plus one formatted number per value column
	baseWidth := 8 + 12*valueColumns

	// Reserve space for table borders, separators, and padding
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable label width
		return 12
	}
	if available > 48 {
		// Maximum label width to prevent overly long lemmas
		return 48
	}
	return available
}
