package outwriter

import (
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/genviz/schema"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	maxSheetName   = 31
	keyColumnWidth = 32
)

// sheetNameReplacer strips the characters Excel forbids in sheet names.
var sheetNameReplacer = strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", `\`, "-")

// writeWorkbook writes each outcome to its own sheet plus a summary sheet listing every chart.
func writeWorkbook(w io.Writer, outcomes []schema.ChartOutcome) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeRow(f, summarySheet, 1, []any{"Chart", "Sheet", "Status", "Rows", "Error"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "E1", bold); err != nil {
		return err
	}

	used := map[string]struct{}{strings.ToLower(summarySheet): {}}
	for i, o := range outcomes {
		sheet := ""
		rows := 0
		status := "ok"
		if !o.OK() {
			status = string(o.ErrKind)
		} else {
			sheet = uniqueSheetName(o.Name, used)
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
			switch {
			case o.Regions != nil:
				rows, err = writeRegionSheet(f, sheet, *o.Regions, bold)
			case o.Chart != nil:
				rows, err = writeChartSheet(f, sheet, *o.Chart, bold)
			}
			if err != nil {
				return err
			}
		}
		if err := writeRow(f, summarySheet, i+2, []any{o.Name, sheet, status, rows, o.ErrMsg}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "B", keyColumnWidth); err != nil {
		return err
	}

	return f.Write(w)
}

// writeChartSheet lays a chart out like the text table: rank, key, then one column per x value.
func writeChartSheet(f *excelize.File, sheet string, chart schema.ChartResult, bold int) (int, error) {
	header := []any{"Rank", "Key"}
	for _, x := range chart.XValues {
		header = append(header, x)
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return 0, err
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, "A1", end, bold); err != nil {
		return 0, err
	}

	for i, key := range chart.Keys {
		row := []any{i + 1, key}
		for _, v := range chart.Matrix[i] {
			row = append(row, v)
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return 0, err
		}
	}
	return len(chart.Keys), f.SetColWidth(sheet, "B", "B", keyColumnWidth)
}

// writeRegionSheet writes the region join; regions without data get an empty value cell.
func writeRegionSheet(f *excelize.File, sheet string, result schema.RegionResult, bold int) (int, error) {
	if err := writeRow(f, sheet, 1, []any{"Rank", "Region", "Value", "Bin"}); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", bold); err != nil {
		return 0, err
	}
	for i, r := range schema.EnrichRegions(result.Rows) {
		var value any
		if r.HasData() {
			value = r.Value
		}
		if err := writeRow(f, sheet, i+2, []any{r.Rank, r.Region, value, r.Bin}); err != nil {
			return 0, err
		}
	}
	return len(result.Rows), f.SetColWidth(sheet, "B", "B", keyColumnWidth)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// uniqueSheetName turns a chart name into a valid sheet name not yet in used.
func uniqueSheetName(name string, used map[string]struct{}) string {
	base := []rune(strings.TrimSpace(sheetNameReplacer.Replace(name)))
	if len(base) == 0 {
		base = []rune("chart")
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}

	candidate := string(base)
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := []rune("~" + strconv.Itoa(n))
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate = string(trimmed) + string(suffix)
	}
	used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}
