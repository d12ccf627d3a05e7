package compose

import (
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
)

type WidgetKind string

const (
	KindIndicator   WidgetKind = "indicator"
	KindMetric      WidgetKind = "metric"
	KindChart       WidgetKind = "chart"
	KindTable       WidgetKind = "table"
	KindPlaceholder WidgetKind = "placeholder"
)

type Tone string

const (
	ToneHigh   Tone = "high"
	ToneMedium Tone = "medium"
	ToneLow    Tone = "low"
)

// Widget is one renderable node of a composed report.
type Widget interface {
	WidgetKind() WidgetKind
}

type Bar struct {
	Percent float64 `json:"percent"`
	Tone    Tone    `json:"tone,omitempty"`
}

type Indicator struct {
	Kind       WidgetKind `json:"kind"`
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Value      float64    `json:"value"`
	Display    string     `json:"display"`
	Bar        *Bar       `json:"bar,omitempty"`
	Note       string     `json:"note,omitempty"`
	Sufficient *bool      `json:"sufficient,omitempty"`
}

func (w Indicator) WidgetKind() WidgetKind { return w.Kind }

type MetricWidget struct {
	Kind       WidgetKind   `json:"kind"`
	Title      string       `json:"title"`
	DataSource string       `json:"dataSource"`
	Value      float64      `json:"value"`
	Display    string       `json:"display"`
	Scale      shared.Scale `json:"scale"`
	Bar        Bar          `json:"bar"`
	Responses  int          `json:"responses"`
	Caption    string       `json:"caption"`
}

func (w MetricWidget) WidgetKind() WidgetKind { return w.Kind }

type ChartBar struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Bar     Bar     `json:"bar"`
}

type ChartWidget struct {
	Kind        WidgetKind `json:"kind"`
	Title       string     `json:"title"`
	Orientation string     `json:"orientation"`
	Style       string     `json:"style,omitempty"`
	Bars        []ChartBar `json:"bars"`
}

func (w ChartWidget) WidgetKind() WidgetKind { return w.Kind }

type TableRow struct {
	Cells    []string `json:"cells"`
	Emphasis bool     `json:"emphasis,omitempty"`
}

type TableWidget struct {
	Kind    WidgetKind `json:"kind"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

func (w TableWidget) WidgetKind() WidgetKind { return w.Kind }

// Placeholder stands in for a widget that has nothing to show.
type Placeholder struct {
	Kind    WidgetKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

func (w Placeholder) WidgetKind() WidgetKind { return w.Kind }

// WidgetTree is the composed report: summary indicators on top, then the
// widget region arranged in Columns columns.
type WidgetTree struct {
	Type    shared.ReportType `json:"type"`
	Title   string            `json:"title,omitempty"`
	Layout  shared.Layout     `json:"layout"`
	Columns int               `json:"columns"`
	Summary []Widget          `json:"summary"`
	Widgets []Widget          `json:"widgets"`
}
