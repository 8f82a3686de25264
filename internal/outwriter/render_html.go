package outwriter

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/genviz/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "560px"

	// missingValue is how echarts spells an absent data point.
	missingValue = "-"
)

// heatPalette runs from low to high usage.
var heatPalette = []string{"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"}

// regionPalette follows the dialect bins from lowest to highest.
var regionPalette = []string{"#fee5d9", "#fcbba1", "#fc9272", "#fb6a4a", "#de2d26", "#a50f15"}

// renderHTMLPage writes every successful outcome as an interactive chart on a single page.
func renderHTMLPage(w io.Writer, title string, outcomes []schema.ChartOutcome) error {
	page := components.NewPage()
	page.PageTitle = title
	if page.PageTitle == "" {
		page.PageTitle = "genviz"
	}

	added := 0
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		switch {
		case o.Regions != nil:
			page.AddCharts(regionBar(*o.Regions))
		case o.Chart != nil:
			page.AddCharts(chartFor(*o.Chart))
		default:
			continue
		}
		added++
	}
	if added == 0 {
		return schema.NewError(schema.MalformedInput, "no charts to render")
	}
	return page.Render(w)
}

// chartFor picks the echarts renderer that matches the chart kind.
func chartFor(chart schema.ChartResult) components.Charter {
	switch chart.Kind {
	case schema.HeatmapChart:
		return heatmapChart(chart)
	case schema.LineChart:
		return lineChart(chart)
	default:
		return barChart(chart)
	}
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: chartWidth, Height: chartHeight})
}

func titleOpts(title, units string) charts.GlobalOpts {
	subtitle := ""
	if units != "" {
		subtitle = fmt.Sprintf("units: %s", units)
	}
	return charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle})
}

// barChart groups bars by key with one series per column.
func barChart(chart schema.ChartResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(chart.Title),
		titleOpts(chart.Title, chart.Units),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	bar.SetXAxis(chart.Keys)
	for col, name := range chart.XValues {
		data := make([]opts.BarData, 0, len(chart.Keys))
		for row := range chart.Keys {
			data = append(data, opts.BarData{Value: chart.Matrix[row][col]})
		}
		bar.AddSeries(name, data)
	}
	return bar
}

// lineChart draws one line per key across the columns.
func lineChart(chart schema.ChartResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(chart.Title),
		titleOpts(chart.Title, chart.Units),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	line.SetXAxis(chart.XValues)
	for row, key := range chart.Keys {
		data := make([]opts.LineData, 0, len(chart.XValues))
		for _, v := range chart.Matrix[row] {
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(key, data)
	}
	return line
}

// heatmapChart lays keys on the y axis and columns on the x axis.
func heatmapChart(chart schema.ChartResult) *charts.HeatMap {
	lo, hi := matrixRange(chart.Matrix)

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(chart.Title),
		titleOpts(chart.Title, chart.Units),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: chart.Keys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: heatPalette},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(chart.Keys)*len(chart.XValues))
	for row := range chart.Keys {
		for col := range chart.XValues {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{col, row, chart.Matrix[row][col]}})
		}
	}
	hm.SetXAxis(chart.XValues).AddSeries(chart.Title, data)
	return hm
}

// regionBar shows a region join as bars colored by value; regions without data are gaps.
func regionBar(result schema.RegionResult) *charts.Bar {
	regions := make([]string, len(result.Rows))
	data := make([]opts.BarData, len(result.Rows))
	hi := 0.0
	for i, r := range result.Rows {
		regions[i] = r.Region
		if !r.HasData() {
			data[i] = opts.BarData{Value: missingValue}
			continue
		}
		data[i] = opts.BarData{Value: r.Value}
		hi = max(hi, r.Value)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(result.Title),
		titleOpts(result.Title, result.Units),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(hi, schema.DialectBins[0].Min)),
			InRange:    &opts.VisualMapInRange{Color: regionPalette},
		}),
	)
	bar.SetXAxis(regions).AddSeries(result.Title, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// matrixRange returns the smallest and largest value of a matrix, or 0, 0 when empty.
func matrixRange(matrix [][]float64) (lo, hi float64) {
	first := true
	for _, row := range matrix {
		for _, v := range row {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}
