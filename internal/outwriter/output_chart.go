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

// PrintChartResult outputs a chart, dispatching based on the output format configured.
func PrintChartResult(chart schema.ChartResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := valueFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, chart)
		}, "json")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartCSV(w, chart, fmtFloat)
		}, "csv")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ChartCells(chart))
		}, "parquet")
	case schema.XLSXOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkbook(w, []schema.ChartOutcome{{Name: chart.Name, Chart: &chart}})
		}, "workbook")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return renderHTMLPage(w, chart.Title, []schema.ChartOutcome{{Name: chart.Name, Chart: &chart}})
		}, "html")
	case schema.PNGOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return renderChartPNG(w, chart)
		}, "png")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeChartTable(w, chart, cfg, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Chart built in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
			return err
		}, "table")
	}
}

// writeChartTable generates and writes the human-readable table.
func writeChartTable(w io.Writer, chart schema.ChartResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	if chart.Title != "" {
		if _, err := fmt.Fprintf(w, "📊 %s\n", chart.Title); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := append([]string{"Rank", "Key"}, chart.XValues...)
	table.Header(headers)

	// 2. Configure alignment so numbers line up
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	labelWidth := getMaxTableLabelWidth(cfg, len(chart.XValues))
	data := make([][]string, 0, len(chart.Keys))
	for i, key := range chart.Keys {
		row := []string{
			strconv.Itoa(i + 1),                     // Rank
			contract.TruncateLabel(key, labelWidth), // Key
		}
		for _, v := range chart.Matrix[i] {
			row = append(row, fmtFloat(v))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	units := ""
	if chart.Units != "" {
		units = fmt.Sprintf(", units: %s", chart.Units)
	}
	_, err := fmt.Fprintf(w, "Showing %d keys across %d columns (sort: %s%s)\n", len(chart.Keys), len(chart.XValues), chart.Sort, units)
	return err
}

// writeChartCSV writes a chart in wide CSV format: one row per key, one column per x value.
func writeChartCSV(w io.Writer, chart schema.ChartResult, fmtFloat func(float64) string) error {
	header := append([]string{"rank", "key"}, chart.XValues...)
	records := make([][]string, 0, len(chart.Keys))
	for i, key := range chart.Keys {
		rec := []string{strconv.Itoa(i + 1), key}
		for _, v := range chart.Matrix[i] {
			rec = append(rec, fmtFloat(v))
		}
		records = append(records, rec)
	}
	return writeCSV(w, header, records)
}
