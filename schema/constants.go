package schema

import (
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// SortAttribute selects which derived metric is appended and ranked on.
	SortAttribute string

	// RankKey selects the value a ranking is driven by.
	RankKey string

	// Layout selects whether a dataset is pivoted before projection.
	Layout string

	// ChartKind is the rendering hint carried by a chart definition.
	ChartKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string
)

// Metric names appended to a GroupOrder.
const (
	MetricAverage      = "Average"
	MetricAverageDelta = "Average delta"
)

// Sentinel marks a region without data. It sits outside the domain of every
// survey percentage so the renderer can tell it apart from a genuine zero.
const Sentinel = -15.0

// All sort attributes supported.
const (
	SortAverage      SortAttribute = "Average"
	SortAverageDelta SortAttribute = "Average delta"
	SortNone         SortAttribute = "None" // default

	// noSortAlias is the metadata spelling that also requests the raw layout.
	noSortAlias = "no sort"
)

// All rank keys supported.
const (
	RankByLast     RankKey = "last"
	RankByAbsDelta RankKey = "absLast"
)

// All layouts supported.
const (
	PivotLayout Layout = "pivot" // default
	RawLayout   Layout = "raw"
)

// All chart kinds supported.
const (
	BarChart     ChartKind = "bar" // default
	HeatmapChart ChartKind = "heatmap"
	LineChart    ChartKind = "line"
	RegionChart  ChartKind = "region"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
	HTMLOut    OutputMode = "html"
	PNGOut     OutputMode = "png"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidSortAttributes lists all valid sort attributes.
var ValidSortAttributes = map[SortAttribute]struct{}{
	SortAverage:      {},
	SortAverageDelta: {},
	SortNone:         {},
}

// ValidLayouts lists all valid layouts.
var ValidLayouts = map[Layout]struct{}{
	PivotLayout: {},
	RawLayout:   {},
}

// ValidChartKinds lists all valid chart kinds.
var ValidChartKinds = map[ChartKind]struct{}{
	BarChart:     {},
	HeatmapChart: {},
	LineChart:    {},
	RegionChart:  {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
	HTMLOut:    {},
	PNGOut:     {},
}

// BinaryOutputModes need an output file because they cannot go to a terminal.
var BinaryOutputModes = map[OutputMode]struct{}{
	ParquetOut: {},
	XLSXOut:    {},
	PNGOut:     {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ParseSortAttribute maps user and metadata spellings onto a SortAttribute.
// The second return value is the layout implied by the spelling: "No sort"
// asks for the raw layout, everything else keeps the pivot.
func ParseSortAttribute(s string) (SortAttribute, Layout, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch strings.NewReplacer("_", " ", "-", " ").Replace(norm) {
	case "", "none":
		return SortNone, PivotLayout, nil
	case noSortAlias:
		return SortNone, RawLayout, nil
	case "average", "avg":
		return SortAverage, PivotLayout, nil
	case "average delta", "averagedelta", "delta":
		return SortAverageDelta, PivotLayout, nil
	}
	return "", "", fmt.Errorf("invalid sort attribute %q. must be Average, Average delta, None or No sort", s)
}

// RankKey returns the ranking key that matches the appended metric.
func (s SortAttribute) RankKey() RankKey {
	if s == SortAverageDelta {
		return RankByAbsDelta
	}
	return RankByLast
}

// MetricName returns the GroupOrder entry appended for this attribute, or "" for None.
func (s SortAttribute) MetricName() string {
	switch s {
	case SortAverage:
		return MetricAverage
	case SortAverageDelta:
		return MetricAverageDelta
	default:
		return ""
	}
}
