package compose

import (
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"fmt"
)

const noDataMessage = "No data available"

func composeDashboard(data shared.ComputedReportData, config *shared.DashboardConfig) (WidgetTree, error) {
	if config == nil {
		return WidgetTree{}, ErrRenderConfig{
			ReportType: shared.ReportTypeDashboard,
			Reason:     "dashboard configuration is required",
		}
	}

	layout, columns := resolveLayout(config.Layout)

	var widgets []Widget
	if len(config.Widgets) == 0 {
		widgets = defaultWidgets(data)
	} else {
		widgets = make([]Widget, 0, len(config.Widgets))
		for _, w := range config.Widgets {
			widgets = append(widgets, renderWidget(data, w))
		}
	}

	return WidgetTree{
		Type:    shared.ReportTypeDashboard,
		Layout:  layout,
		Columns: columns,
		Summary: summaryIndicators(data),
		Widgets: widgets,
	}, nil
}

// defaultWidgets lists every dimension as a bar chart and every metric as a
// key/value table. Empty sections are left out.
func defaultWidgets(data shared.ComputedReportData) []Widget {
	widgets := make([]Widget, 0, 2)

	if len(data.Dimensions) > 0 {
		bars := make([]ChartBar, 0, len(data.Dimensions))
		for _, key := range sortedKeys(data.Dimensions) {
			dim := data.Dimensions[key]

			// dimensions without bounds are treated as percentages here
			percent := clampPercent(dim.Value)
			if dim.Scale != nil {
				percent = dim.Percent()
			}

			bars = append(bars, ChartBar{
				Key:     key,
				Label:   humanize(key),
				Value:   dim.Value,
				Display: formatFixed(dim.Value, 1),
				Bar:     Bar{Percent: percent, Tone: toneFor(percent)},
			})
		}
		widgets = append(widgets, ChartWidget{
			Kind:        KindChart,
			Title:       "Dimensions",
			Orientation: "horizontal",
			Bars:        bars,
		})
	}

	if len(data.Metrics) > 0 {
		widgets = append(widgets, metricsTable("Metrics", data.Metrics))
	}

	return widgets
}

func renderWidget(data shared.ComputedReportData, w shared.DashboardWidget) Widget {
	title := sanitizeTitle(w.Title())

	switch w.Type {
	case shared.WidgetTypeMetric:
		return metricWidget(data, w, title)
	case shared.WidgetTypeChart:
		return chartWidget(data.Dimensions, title, "")
	case shared.WidgetTypeTable:
		return dimensionTable(data, title)
	}

	if title == "" {
		title = "Widget"
	}
	return Placeholder{
		Kind:    KindPlaceholder,
		Title:   title,
		Message: fmt.Sprintf("Unknown widget type: %s", w.Type),
	}
}

func metricWidget(data shared.ComputedReportData, w shared.DashboardWidget, title string) Widget {
	if title == "" {
		title = w.DataSource
	}

	dim, ok := data.Dimensions[w.DataSource]
	if !ok {
		return Placeholder{Kind: KindPlaceholder, Title: title, Message: noDataMessage}
	}

	scale := dim.ScaleOrDefault()
	percent := dim.Percent()

	return MetricWidget{
		Kind:       KindMetric,
		Title:      title,
		DataSource: w.DataSource,
		Value:      dim.Value,
		Display:    formatFixed(dim.Value, 2),
		Scale:      scale,
		Bar:        Bar{Percent: percent, Tone: toneFor(percent)},
		Responses:  dim.Responses,
		Caption:    fmt.Sprintf("%d responses", dim.Responses),
	}
}

// chartWidget draws one bar per dimension, each on its own scale.
func chartWidget(dimensions map[string]shared.Dimension, title, style string) Widget {
	if len(dimensions) == 0 {
		if title == "" {
			title = "Chart"
		}
		return Placeholder{Kind: KindPlaceholder, Title: title, Message: noDataMessage}
	}
	if title == "" {
		title = "Dimension Scores"
	}

	bars := make([]ChartBar, 0, len(dimensions))
	for _, key := range sortedKeys(dimensions) {
		dim := dimensions[key]
		percent := dim.Percent()
		bars = append(bars, ChartBar{
			Key:     key,
			Label:   humanize(key),
			Value:   dim.Value,
			Display: formatFixed(dim.Value, 2),
			Bar:     Bar{Percent: percent, Tone: toneFor(percent)},
		})
	}

	return ChartWidget{
		Kind:        KindChart,
		Title:       title,
		Orientation: "horizontal",
		Style:       style,
		Bars:        bars,
	}
}

// dimensionTable lists every dimension followed by an "Overall" row.
func dimensionTable(data shared.ComputedReportData, title string) Widget {
	if title == "" {
		title = "Summary"
	}

	rows := make([]TableRow, 0, len(data.Dimensions)+1)
	for _, key := range sortedKeys(data.Dimensions) {
		dim := data.Dimensions[key]
		rows = append(rows, TableRow{Cells: []string{
			humanize(key),
			formatFixed(dim.Value, 2),
			fmt.Sprintf("%d", dim.Responses),
		}})
	}

	overall := 0.0
	if data.OverallScore != nil {
		overall = *data.OverallScore
	}
	rows = append(rows, TableRow{
		Cells:    []string{"Overall", formatFixed(overall, 2), fmt.Sprintf("%d", data.ResponseCount)},
		Emphasis: true,
	})

	return TableWidget{
		Kind:    KindTable,
		Title:   title,
		Columns: []string{"Dimension", "Score", "Responses"},
		Rows:    rows,
	}
}

func metricsTable(title string, metrics map[string]any) Widget {
	rows := make([]TableRow, 0, len(metrics))
	for _, key := range sortedKeys(metrics) {
		rows = append(rows, TableRow{Cells: []string{key, formatMetric(metrics[key])}})
	}

	return TableWidget{
		Kind:    KindTable,
		Title:   title,
		Columns: []string{"Metric", "Value"},
		Rows:    rows,
	}
}
