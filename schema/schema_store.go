package schema

import "time"

// RunRecord represents a row from the genviz_dashboard_runs table.
type RunRecord struct {
	RunID        string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalCharts  int32
	FailedCharts int32
	ConfigParams *string
}

// ChartOutcomeRecord represents a row from the genviz_chart_outcomes table.
type ChartOutcomeRecord struct {
	RunID     string
	ChartName string
	Source    string
	BuiltAt   time.Time
	SortMode  string
	RowCount  int32
	TopKey    *string
	TopValue  *float64
	ErrorKind *string
	ErrorMsg  *string
}

// ChartSpec is one entry of a dashboard manifest.
type ChartSpec struct {
	Name    string    `yaml:"name" json:"name" validate:"required"`
	Source  string    `yaml:"source" json:"source" validate:"required"`
	Kind    ChartKind `yaml:"kind" json:"kind" validate:"omitempty,oneof=bar heatmap line region"`
	Sort    string    `yaml:"sort" json:"sort" validate:"omitempty,sortmode"`
	Top     int       `yaml:"top" json:"top" validate:"gte=0,lte=1000"`
	Regions string    `yaml:"regions" json:"regions"`
}

// Manifest is the list of charts that make up a dashboard.
type Manifest struct {
	Title  string      `yaml:"title" json:"title" env:"GENVIZ_DASHBOARD_TITLE"`
	Charts []ChartSpec `yaml:"charts" json:"charts" validate:"required,min=1,unique=Name,dive"`
}
