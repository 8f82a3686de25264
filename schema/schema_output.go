package schema

// ChartResult is the triple handed to a renderer plus the metadata pass-through.
type ChartResult struct {
	Name    string        `json:"name"`
	Title   string        `json:"title"`
	Units   string        `json:"units,omitempty"`
	Kind    ChartKind     `json:"kind"`
	Sort    SortAttribute `json:"sort"`
	XValues []string      `json:"x_values"`
	Keys    []string      `json:"keys"`
	Matrix  [][]float64   `json:"matrix"`
}

// Empty reports whether the chart has no rows to render.
func (c ChartResult) Empty() bool {
	return len(c.Keys) == 0
}

// RegionResult is the output of a region join ready for a choropleth renderer.
type RegionResult struct {
	Name  string      `json:"name"`
	Title string      `json:"title"`
	Units string      `json:"units,omitempty"`
	Rows  []RegionRow `json:"rows"`
}

// EnrichedRegionRow adds presentation data to a RegionRow.
type EnrichedRegionRow struct {
	Rank int    `json:"rank"`
	Bin  string `json:"bin"`
	RegionRow
}

// EnrichRegions adds rank and bin to a list of region rows, keeping their order.
func EnrichRegions(rows []RegionRow) []EnrichedRegionRow {
	output := make([]EnrichedRegionRow, len(rows))
	for i, r := range rows {
		output[i] = EnrichedRegionRow{
			Rank:      i + 1,
			Bin:       BinFor(r.Value),
			RegionRow: r,
		}
	}
	return output
}

// ChartOutcome is the per-chart result of a dashboard run.
type ChartOutcome struct {
	Name    string        `json:"name"`
	Chart   *ChartResult  `json:"chart,omitempty"`
	Regions *RegionResult `json:"regions,omitempty"`
	Err     error         `json:"-"`
	ErrKind ErrorKind     `json:"error_kind,omitempty"`
	ErrMsg  string        `json:"error,omitempty"`
}

// OK reports whether the chart was built.
func (o ChartOutcome) OK() bool {
	return o.Err == nil
}

// WithError returns a copy of the outcome carrying err.
func (o ChartOutcome) WithError(err error) ChartOutcome {
	o.Err = err
	o.ErrKind = KindOf(err)
	o.ErrMsg = err.Error()
	return o
}

// DashboardResult collects every chart outcome of one run in definition order.
type DashboardResult struct {
	RunID    string         `json:"run_id"`
	Outcomes []ChartOutcome `json:"outcomes"`
}

// Failed returns the number of charts that could not be built.
func (d DashboardResult) Failed() int {
	n := 0
	for _, o := range d.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
