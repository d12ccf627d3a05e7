package shared

import (
	"math"
	"strings"
)

type ReportType string

const (
	ReportTypeDashboard     ReportType = "dashboard"
	ReportTypePDF           ReportType = "pdf"
	ReportTypeVisualization ReportType = "visualization"
)

type Layout string

const (
	LayoutGrid        Layout = "grid"
	LayoutSingle      Layout = "single"
	LayoutThreeColumn Layout = "three-column"
)

type WidgetType string

const (
	WidgetTypeMetric WidgetType = "metric"
	WidgetTypeChart  WidgetType = "chart"
	WidgetTypeTable  WidgetType = "table"
)

// SufficientResponseCount is the response count from which report data is
// considered representative.
const SufficientResponseCount = 5

type Scale struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

var DefaultScale = Scale{Min: 1, Max: 5}

type Dimension struct {
	Value     float64 `json:"value"`
	Scale     *Scale  `json:"scale,omitempty"`
	Responses int     `json:"responses"`
}

// ScaleOrDefault returns the dimension's own bounds, or 1..5 when it has none.
func (d Dimension) ScaleOrDefault() Scale {
	if d.Scale == nil {
		return DefaultScale
	}
	return *d.Scale
}

// Percent places the value on ScaleOrDefault as 0..100, clamped. A scale
// with min == max yields 0.
func (d Dimension) Percent() float64 {
	scale := d.ScaleOrDefault()
	span := scale.Max - scale.Min
	if span == 0 {
		return 0
	}
	p := (d.Value - scale.Min) / span * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

// ComputedReportData is the normalized document produced by one aggregation
// run. Metric values are numbers or strings.
type ComputedReportData struct {
	ResponseCount  int                  `json:"response_count"`
	CompletionRate *float64             `json:"completion_rate,omitempty"`
	OverallScore   *float64             `json:"overall_score,omitempty"`
	Dimensions     map[string]Dimension `json:"dimensions"`
	Metrics        map[string]any       `json:"metrics"`
}

type DashboardWidget struct {
	Type       WidgetType     `json:"type" yaml:"type"`
	DataSource string         `json:"dataSource" yaml:"dataSource"`
	Options    map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Title returns options.title when it is a non-blank string.
func (w DashboardWidget) Title() string {
	title, ok := w.Options["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return ""
	}
	return title
}

type DashboardConfig struct {
	Layout  Layout            `json:"layout,omitempty" yaml:"layout,omitempty"`
	Widgets []DashboardWidget `json:"widgets" yaml:"widgets"`
}

type PDFConfig struct {
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	IncludeSummary bool   `json:"includeSummary" yaml:"includeSummary"`
	IncludeMetrics bool   `json:"includeMetrics" yaml:"includeMetrics"`
}

type VisualizationConfig struct {
	ChartType   string   `json:"chartType,omitempty" yaml:"chartType,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	DataSources []string `json:"dataSources,omitempty" yaml:"dataSources,omitempty"`
}

type ReportTemplateConfig struct {
	Type          ReportType           `json:"type" yaml:"type"`
	Dashboard     *DashboardConfig     `json:"dashboard,omitempty" yaml:"dashboard,omitempty"`
	PDF           *PDFConfig           `json:"pdf,omitempty" yaml:"pdf,omitempty"`
	Visualization *VisualizationConfig `json:"visualization,omitempty" yaml:"visualization,omitempty"`
}
