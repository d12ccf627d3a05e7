package compose

import (
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
)

// composePDF arranges a printable single column document: optional
// summary, the dimension table and optionally the metrics table.
func composePDF(data shared.ComputedReportData, config *shared.PDFConfig) (WidgetTree, error) {
	if config == nil {
		return WidgetTree{}, ErrRenderConfig{
			ReportType: shared.ReportTypePDF,
			Reason:     "pdf configuration is required",
		}
	}

	summary := []Widget{}
	if config.IncludeSummary {
		summary = summaryIndicators(data)
	}

	widgets := []Widget{dimensionTable(data, "Dimension Scores")}
	if config.IncludeMetrics && len(data.Metrics) > 0 {
		widgets = append(widgets, metricsTable("Metrics", data.Metrics))
	}

	return WidgetTree{
		Type:    shared.ReportTypePDF,
		Title:   sanitizeTitle(config.Title),
		Layout:  shared.LayoutSingle,
		Columns: 1,
		Summary: summary,
		Widgets: widgets,
	}, nil
}

// composeVisualization draws a single chart over the configured data
// sources, or over every dimension when none are configured.
func composeVisualization(data shared.ComputedReportData, config *shared.VisualizationConfig) (WidgetTree, error) {
	if config == nil {
		return WidgetTree{}, ErrRenderConfig{
			ReportType: shared.ReportTypeVisualization,
			Reason:     "visualization configuration is required",
		}
	}

	dimensions := data.Dimensions
	if len(config.DataSources) > 0 {
		dimensions = make(map[string]shared.Dimension, len(config.DataSources))
		for _, source := range config.DataSources {
			dim, ok := data.Dimensions[source]
			if ok {
				dimensions[source] = dim
			}
		}
	}

	style := config.ChartType
	if style == "" {
		style = "bar"
	}

	return WidgetTree{
		Type:    shared.ReportTypeVisualization,
		Title:   sanitizeTitle(config.Title),
		Layout:  shared.LayoutSingle,
		Columns: 1,
		Summary: []Widget{},
		Widgets: []Widget{chartWidget(dimensions, sanitizeTitle(config.Title), style)},
	}, nil
}
