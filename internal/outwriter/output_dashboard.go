package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/parquet"
	"github.com/huangsam/genviz/schema"
)

// PrintDashboardResult outputs every chart of a dashboard run in definition order.
func PrintDashboardResult(result schema.DashboardResult, title string, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := valueFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Title string `json:"title,omitempty"`
				schema.DashboardResult
			}{title, result})
		}, "json")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardCSV(w, result, fmtFloat)
		}, "csv")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, dashboardCells(result))
		}, "parquet")
	case schema.XLSXOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkbook(w, result.Outcomes)
		}, "workbook")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return renderHTMLPage(w, title, result.Outcomes)
		}, "html")
	case schema.PNGOut:
		return fmt.Errorf("png output renders a single chart; use html or xlsx for dashboards")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeDashboardText(w, result, title, cfg, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Dashboard run %s built %d charts (%d failed) in %v\n",
				result.RunID, len(result.Outcomes), result.Failed(), duration)
			return err
		}, "tables")
	}
}

// writeDashboardText prints one table per chart and an error line for each failure.
func writeDashboardText(w io.Writer, result schema.DashboardResult, title string, cfg *contract.Config, fmtFloat func(float64) string) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "== %s ==\n\n", title); err != nil {
			return err
		}
	}
	for _, o := range result.Outcomes {
		var err error
		switch {
		case !o.OK():
			_, err = fmt.Fprintf(w, "❌ %s: %s\n", o.Name, o.ErrMsg)
		case o.Regions != nil:
			err = writeRegionTable(w, *o.Regions, fmtFloat)
		case o.Chart != nil:
			err = writeChartTable(w, *o.Chart, cfg, fmtFloat)
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeDashboardCSV writes every chart in long format so charts with different columns share one file.
func writeDashboardCSV(w io.Writer, result schema.DashboardResult, fmtFloat func(float64) string) error {
	header := []string{"chart", "rank", "key", "column", "value", "error"}
	var records [][]string
	for _, o := range result.Outcomes {
		if !o.OK() {
			records = append(records, []string{o.Name, "", "", "", "", o.ErrMsg})
			continue
		}
		for _, cell := range outcomeCells(o) {
			records = append(records, []string{cell.Chart, strconv.Itoa(int(cell.Rank)), cell.Key, cell.Column, fmtFloat(cell.Value), ""})
		}
		if o.Regions != nil {
			for _, r := range parquet.RegionValues(*o.Regions) {
				value := ""
				if r.Value != nil {
					value = fmtFloat(*r.Value)
				}
				records = append(records, []string{r.Chart, strconv.Itoa(int(r.Rank)), r.Region, "value", value, ""})
			}
		}
	}
	return writeCSV(w, header, records)
}

// dashboardCells flattens every successful chart into long-format cells.
// Region charts contribute one cell per region with data.
func dashboardCells(result schema.DashboardResult) []parquet.ChartCell {
	var cells []parquet.ChartCell
	for _, o := range result.Outcomes {
		if !o.OK() {
			continue
		}
		cells = append(cells, outcomeCells(o)...)
		if o.Regions != nil {
			for _, r := range parquet.RegionValues(*o.Regions) {
				if r.Value == nil {
					continue
				}
				cells = append(cells, parquet.ChartCell{
					Chart: r.Chart, Title: o.Regions.Title, Rank: r.Rank,
					Key: r.Region, Column: "value", Value: *r.Value,
				})
			}
		}
	}
	return cells
}

func outcomeCells(o schema.ChartOutcome) []parquet.ChartCell {
	if o.Chart == nil {
		return nil
	}
	return parquet.ChartCells(*o.Chart)
}
