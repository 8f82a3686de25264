package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/parquet"
	"github.com/huangsam/genviz/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// noDataText is shown instead of the sentinel value.
const noDataText = "n/a"

// PrintRegionResult outputs a region join, dispatching based on the output format configured.
func PrintRegionResult(result schema.RegionResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := valueFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRegionJSON(w, result)
		}, "json")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRegionCSV(w, result, fmtFloat)
		}, "csv")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.RegionValues(result))
		}, "parquet")
	case schema.XLSXOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkbook(w, []schema.ChartOutcome{{Name: result.Name, Regions: &result}})
		}, "workbook")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return renderHTMLPage(w, result.Title, []schema.ChartOutcome{{Name: result.Name, Regions: &result}})
		}, "html")
	case schema.PNGOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return renderRegionsPNG(w, result)
		}, "png")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRegionTable(w, result, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Regions joined in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
			return err
		}, "table")
	}
}

// formatRegionValue renders a region value, hiding the sentinel.
func formatRegionValue(r schema.RegionRow, fmtFloat func(float64) string) string {
	if !r.HasData() {
		return noDataText
	}
	return fmtFloat(r.Value)
}

// writeRegionTable generates and writes the human-readable region table.
func writeRegionTable(w io.Writer, result schema.RegionResult, fmtFloat func(float64) string) error {
	if result.Title != "" {
		if _, err := fmt.Fprintf(w, "🗺️  %s\n", result.Title); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Region", "Value", "Bin"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	withData := 0
	data := make([][]string, 0, len(result.Rows))
	for i, r := range result.Rows {
		if r.HasData() {
			withData++
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Region,
			formatRegionValue(r, fmtFloat),
			contract.GetColorBin(r.Value),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d regions have data\n", withData, len(result.Rows))
	return err
}

// writeRegionCSV writes the region join; regions without data have an empty value.
func writeRegionCSV(w io.Writer, result schema.RegionResult, fmtFloat func(float64) string) error {
	rows := schema.EnrichRegions(result.Rows)
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		value := ""
		if r.HasData() {
			value = fmtFloat(r.Value)
		}
		records = append(records, []string{strconv.Itoa(r.Rank), r.Region, value, r.Bin})
	}
	return writeCSV(w, []string{"rank", "region", "value", "bin"}, records)
}

// writeRegionJSON writes the region join with rank and bin added to each row.
func writeRegionJSON(w io.Writer, result schema.RegionResult) error {
	type jsonRegionResult struct {
		Name  string                     `json:"name"`
		Title string                     `json:"title"`
		Units string                     `json:"units,omitempty"`
		Rows  []schema.EnrichedRegionRow `json:"rows"`
	}
	return writeJSON(w, jsonRegionResult{
		Name:  result.Name,
		Title: result.Title,
		Units: result.Units,
		Rows:  schema.EnrichRegions(result.Rows),
	})
}
