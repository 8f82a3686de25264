package outwriter

import (
	"io"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	pngWidth      = 14 * vg.Inch
	pngHeight     = 6 * vg.Inch
	pngLabelWidth = 18
	barGroupWidth = 60
)

// renderChartPNG draws a chart as a static image using the chart kind as a hint.
func renderChartPNG(w io.Writer, chart schema.ChartResult) error {
	if chart.Empty() {
		return schema.NewError(schema.MalformedInput, "chart %q has no rows to plot", chart.Name)
	}

	p := plot.New()
	p.Title.Text = chart.Title
	p.Y.Label.Text = chart.Units

	var err error
	switch chart.Kind {
	case schema.HeatmapChart:
		err = addHeatmap(p, chart)
	case schema.LineChart:
		err = addLines(p, chart)
	default:
		err = addBars(p, chart)
	}
	if err != nil {
		return err
	}
	return savePNG(w, p)
}

// renderRegionsPNG draws a region join as a bar chart; regions without data plot as zero.
func renderRegionsPNG(w io.Writer, result schema.RegionResult) error {
	if len(result.Rows) == 0 {
		return schema.NewError(schema.MalformedInput, "region chart %q has no rows to plot", result.Name)
	}

	p := plot.New()
	p.Title.Text = result.Title
	p.Y.Label.Text = result.Units

	values := make(plotter.Values, len(result.Rows))
	names := make([]string, len(result.Rows))
	for i, r := range result.Rows {
		names[i] = contract.TruncateLabel(r.Region, pngLabelWidth)
		if r.HasData() {
			values[i] = r.Value
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(barGroupWidth/2))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -1
	return savePNG(w, p)
}

// addBars adds one bar series per column, grouped by key.
func addBars(p *plot.Plot, chart schema.ChartResult) error {
	cols := len(chart.XValues)
	width := vg.Points(float64(barGroupWidth) / float64(max(cols, 1)))

	for col, name := range chart.XValues {
		values := make(plotter.Values, len(chart.Keys))
		for row := range chart.Keys {
			values[row] = chart.Matrix[row][col]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(col)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(col-cols/2)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.Legend.Top = true
	p.NominalX(truncateAll(chart.Keys)...)
	return nil
}

// addLines adds one line per key across the columns.
func addLines(p *plot.Plot, chart schema.ChartResult) error {
	for row, key := range chart.Keys {
		pts := make(plotter.XYs, len(chart.XValues))
		for col := range chart.XValues {
			pts[col] = plotter.XY{X: float64(col), Y: chart.Matrix[row][col]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Width = vg.Points(1)
		line.Color = plotutil.Color(row)
		p.Add(line)
		p.Legend.Add(contract.TruncateLabel(key, pngLabelWidth), line)
	}
	p.Legend.Top = true
	p.NominalX(chart.XValues...)
	return nil
}

// addHeatmap colors a cell per key and column.
func addHeatmap(p *plot.Plot, chart schema.ChartResult) error {
	if len(chart.XValues) == 0 {
		return schema.NewError(schema.MalformedInput, "chart %q has no columns to plot", chart.Name)
	}
	hm := plotter.NewHeatMap(matrixGrid(chart.Matrix), moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)
	p.NominalX(chart.XValues...)
	p.NominalY(truncateAll(chart.Keys)...)
	return nil
}

// matrixGrid adapts a chart matrix to plotter.GridXYZ with columns on X and keys on Y.
type matrixGrid [][]float64

func (m matrixGrid) Dims() (c, r int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m[0]), len(m)
}

func (m matrixGrid) Z(c, r int) float64 { return m[r][c] }
func (m matrixGrid) X(c int) float64    { return float64(c) }
func (m matrixGrid) Y(r int) float64    { return float64(r) }

func truncateAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = contract.TruncateLabel(l, pngLabelWidth)
	}
	return out
}

func savePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
