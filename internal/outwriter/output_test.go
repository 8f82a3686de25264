package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/parquet"
	"github.com/huangsam/genviz/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleChart() schema.ChartResult {
	return schema.ChartResult{
		Name:    "lemmas",
		Title:   "Most used lemmas",
		Units:   "%",
		Kind:    schema.BarChart,
		Sort:    schema.SortAverage,
		XValues: []string{"Generation Y", "Generation Z", "Average"},
		Keys:    []string{"boh", "magari"},
		Matrix:  [][]float64{{40, 44, 42}, {10, 25, 17.5}},
	}
}

func sampleRegions() schema.RegionResult {
	return schema.RegionResult{
		Name:  "dialect",
		Title: "Dialect usage",
		Rows: []schema.RegionRow{
			{Region: "Veneto", Value: 41.5},
			{Region: "Lazio", Value: 12},
			{Region: "Molise", Value: schema.Sentinel},
		},
	}
}

func sampleDashboard() schema.DashboardResult {
	chart := sampleChart()
	regions := sampleRegions()
	broken := schema.ChartOutcome{Name: "broken"}.WithError(schema.NewError(schema.MalformedInput, "leaf is not numeric"))
	return schema.DashboardResult{
		RunID: "run-1",
		Outcomes: []schema.ChartOutcome{
			{Name: chart.Name, Chart: &chart},
			broken,
			{Name: regions.Name, Regions: &regions},
		},
	}
}

func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       output,
		OutputFile:   outputFile,
		Precision:    1,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func TestPrintChartResultText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.txt")
	require.NoError(t, PrintChartResult(sampleChart(), testConfig(schema.TextOut, out), time.Second))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Most used lemmas")
	assert.Contains(t, text, "magari")
	assert.Contains(t, text, "17.5")
	assert.Contains(t, text, "Showing 2 keys across 3 columns (sort: Average, units: %)")
}

func TestPrintChartResultCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.csv")
	require.NoError(t, PrintChartResult(sampleChart(), testConfig(schema.CSVOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,key,Generation Y,Generation Z,Average", lines[0])
	assert.Equal(t, "1,boh,40.0,44.0,42.0", lines[1])
	assert.Equal(t, "2,magari,10.0,25.0,17.5", lines[2])
}

func TestPrintChartResultJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.json")
	require.NoError(t, PrintChartResult(sampleChart(), testConfig(schema.JSONOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var got schema.ChartResult
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, sampleChart(), got)
}

func TestPrintChartResultParquet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.parquet")
	require.NoError(t, PrintChartResult(sampleChart(), testConfig(schema.ParquetOut, out), 0))

	rows, err := pq.ReadFile[parquet.ChartCell](out)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "boh", rows[0].Key)
	assert.Equal(t, "Generation Y", rows[0].Column)
	assert.Equal(t, int32(2), rows[5].Rank)
	assert.Equal(t, 17.5, rows[5].Value)
}

func TestPrintChartResultXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.xlsx")
	require.NoError(t, PrintChartResult(sampleChart(), testConfig(schema.XLSXOut, out), 0))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{summarySheet, "lemmas"}, f.GetSheetList())
	rows, err := f.GetRows("lemmas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Key", "Generation Y", "Generation Z", "Average"}, rows[0])
	assert.Equal(t, "magari", rows[2][1])
	assert.Equal(t, "17.5", rows[2][4])
}

func TestPrintChartResultHTML(t *testing.T) {
	for _, kind := range []schema.ChartKind{schema.BarChart, schema.LineChart, schema.HeatmapChart} {
		t.Run(string(kind), func(t *testing.T) {
			chart := sampleChart()
			chart.Kind = kind
			out := filepath.Join(t.TempDir(), "chart.html")
			require.NoError(t, PrintChartResult(chart, testConfig(schema.HTMLOut, out), 0))

			content, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(content), "Most used lemmas")
			assert.Contains(t, string(content), "magari")
		})
	}
}

func TestPrintChartResultPNG(t *testing.T) {
	for _, kind := range []schema.ChartKind{schema.BarChart, schema.LineChart, schema.HeatmapChart} {
		t.Run(string(kind), func(t *testing.T) {
			chart := sampleChart()
			chart.Kind = kind
			out := filepath.Join(t.TempDir(), "chart.png")
			require.NoError(t, PrintChartResult(chart, testConfig(schema.PNGOut, out), 0))

			content, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG")))
		})
	}
}

func TestRenderChartPNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := renderChartPNG(&buf, schema.ChartResult{Name: "empty"})
	assert.ErrorIs(t, err, schema.ErrMalformedInput)
}

func TestPrintRegionResultText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regions.txt")
	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.TextOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Veneto")
	assert.Contains(t, text, "41.5")
	assert.Contains(t, text, noDataText)
	assert.NotContains(t, text, "-15.0")
	assert.Contains(t, text, "2 of 3 regions have data")
}

func TestPrintRegionResultCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regions.csv")
	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.CSVOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rank,region,value,bin", lines[0])
	assert.Equal(t, "1,Veneto,41.5,40%+", lines[1])
	assert.Equal(t, "3,Molise,,no data", lines[3])
}

func TestPrintRegionResultJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regions.json")
	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.JSONOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var got struct {
		Name string                     `json:"name"`
		Rows []schema.EnrichedRegionRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, "dialect", got.Name)
	require.Len(t, got.Rows, 3)
	assert.Equal(t, "10-20%", got.Rows[1].Bin)
	assert.Equal(t, schema.Sentinel, got.Rows[2].Value)
}

func TestPrintRegionResultParquet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regions.parquet")
	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.ParquetOut, out), 0))

	rows, err := pq.ReadFile[parquet.RegionValue](out)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].Value)
	assert.Equal(t, 41.5, *rows[0].Value)
	assert.Nil(t, rows[2].Value)
}

func TestPrintRegionResultRenderers(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.HTMLOut, filepath.Join(dir, "r.html")), 0))
	html, err := os.ReadFile(filepath.Join(dir, "r.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Dialect usage")

	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.PNGOut, filepath.Join(dir, "r.png")), 0))
	png, err := os.ReadFile(filepath.Join(dir, "r.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	require.NoError(t, PrintRegionResult(sampleRegions(), testConfig(schema.XLSXOut, filepath.Join(dir, "r.xlsx")), 0))
	f, err := excelize.OpenFile(filepath.Join(dir, "r.xlsx"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	value, err := f.GetCellValue("dialect", "C4")
	require.NoError(t, err)
	assert.Empty(t, value)
	bin, err := f.GetCellValue("dialect", "D4")
	require.NoError(t, err)
	assert.Equal(t, schema.BinNoData, bin)
}

func TestPrintDashboardResultText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.txt")
	require.NoError(t, PrintDashboardResult(sampleDashboard(), "Survey", testConfig(schema.TextOut, out), time.Second))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "== Survey ==")
	assert.Contains(t, text, "Most used lemmas")
	assert.Contains(t, text, "broken: malformed_input: leaf is not numeric")
	assert.Contains(t, text, "Dialect usage")
	assert.Contains(t, text, "built 3 charts (1 failed)")

	// Charts appear in definition order
	assert.Less(t, strings.Index(text, "Most used lemmas"), strings.Index(text, "broken"))
	assert.Less(t, strings.Index(text, "broken"), strings.Index(text, "Dialect usage"))
}

func TestPrintDashboardResultJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, PrintDashboardResult(sampleDashboard(), "Survey", testConfig(schema.JSONOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var got struct {
		Title    string                `json:"title"`
		RunID    string                `json:"run_id"`
		Outcomes []schema.ChartOutcome `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, "Survey", got.Title)
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Outcomes, 3)
	assert.Equal(t, schema.MalformedInput, got.Outcomes[1].ErrKind)
	require.NotNil(t, got.Outcomes[2].Regions)
}

func TestPrintDashboardResultCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.csv")
	require.NoError(t, PrintDashboardResult(sampleDashboard(), "", testConfig(schema.CSVOut, out), 0))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	// header + 6 chart cells + 1 failure + 3 regions
	require.Len(t, lines, 11)
	assert.Equal(t, "chart,rank,key,column,value,error", lines[0])
	assert.Equal(t, "lemmas,1,boh,Generation Y,40.0,", lines[1])
	assert.Equal(t, "broken,,,,,malformed_input: leaf is not numeric", lines[7])
	assert.Equal(t, "dialect,3,Molise,value,,", lines[10])
}

func TestPrintDashboardResultParquet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.parquet")
	require.NoError(t, PrintDashboardResult(sampleDashboard(), "", testConfig(schema.ParquetOut, out), 0))

	rows, err := pq.ReadFile[parquet.ChartCell](out)
	require.NoError(t, err)
	// 6 chart cells plus the 2 regions with data
	require.Len(t, rows, 8)
	assert.Equal(t, "dialect", rows[7].Chart)
	assert.Equal(t, "Lazio", rows[7].Key)
}

func TestPrintDashboardResultXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.xlsx")
	require.NoError(t, PrintDashboardResult(sampleDashboard(), "", testConfig(schema.XLSXOut, out), 0))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{summarySheet, "lemmas", "dialect"}, f.GetSheetList())
	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"broken", "", "malformed_input", "0", "malformed_input: leaf is not numeric"}, rows[2])
}

func TestPrintDashboardResultPNGUnsupported(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.png")
	assert.Error(t, PrintDashboardResult(sampleDashboard(), "", testConfig(schema.PNGOut, out), 0))
}

func TestRenderHTMLPageNothingToRender(t *testing.T) {
	var buf bytes.Buffer
	outcomes := []schema.ChartOutcome{schema.ChartOutcome{Name: "x"}.WithError(schema.ErrEmptyGroup)}
	assert.ErrorIs(t, renderHTMLPage(&buf, "", outcomes), schema.ErrMalformedInput)
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]struct{}{strings.ToLower(summarySheet): {}}

	assert.Equal(t, "lemmas", uniqueSheetName("lemmas", used))
	assert.Equal(t, "Lemmas~2", uniqueSheetName("Lemmas", used))
	assert.Equal(t, "Summary~2", uniqueSheetName("Summary", used))
	assert.Equal(t, "a-b c", uniqueSheetName("a/b [c]", used))
	assert.Equal(t, "chart", uniqueSheetName("???", used))

	long := uniqueSheetName(strings.Repeat("x", 40), used)
	assert.Len(t, long, maxSheetName)
	again := uniqueSheetName(strings.Repeat("x", 40), used)
	assert.Len(t, again, maxSheetName)
	assert.True(t, strings.HasSuffix(again, "~2"))
}

func TestMatrixRange(t *testing.T) {
	lo, hi := matrixRange([][]float64{{3, -1}, {7, 2}})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)

	lo, hi = matrixRange(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestGetMaxTableLabelWidth(t *testing.T) {
	assert.Equal(t, 12, getMaxTableLabelWidth(&contract.Config{Width: 40}, 3))
	assert.Equal(t, 48, getMaxTableLabelWidth(&contract.Config{Width: 300}, 1))
	assert.Equal(t, 30, getMaxTableLabelWidth(&contract.Config{Width: 72}, 2))
}
