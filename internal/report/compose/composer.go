// Package compose turns computed report data and a template configuration
// into a JSON serializable widget tree. Composition is pure: both inputs
// are passed explicitly and never modified.
package compose

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"fmt"
)

type ErrRenderConfig struct {
	ReportType shared.ReportType
	Reason     string
}

func (e ErrRenderConfig) Error() string {
	return fmt.Sprintf("%s report: %s", e.ReportType, e.Reason)
}

func (e ErrRenderConfig) Unwrap() error {
	return internal.ErrRenderConfig
}

type ErrUnsupportedReportType struct {
	ReportType shared.ReportType
}

func (e ErrUnsupportedReportType) Error() string {
	return fmt.Sprintf("report type %q is not supported", e.ReportType)
}

func (e ErrUnsupportedReportType) Unwrap() error {
	return internal.ErrUnsupportedReportType
}

type ErrInvalidReportData struct {
	Reason string
}

func (e ErrInvalidReportData) Error() string {
	return "invalid report data: " + e.Reason
}

func (e ErrInvalidReportData) Unwrap() error {
	return internal.ErrReportDataBroken
}

// Compose renders data with the composer matching config.Type.
func Compose(data shared.ComputedReportData, config shared.ReportTemplateConfig) (WidgetTree, error) {
	err := validateData(data)
	if err != nil {
		return WidgetTree{}, err
	}

	switch config.Type {
	case shared.ReportTypeDashboard:
		return composeDashboard(data, config.Dashboard)
	case shared.ReportTypePDF:
		return composePDF(data, config.PDF)
	case shared.ReportTypeVisualization:
		return composeVisualization(data, config.Visualization)
	}

	return WidgetTree{}, ErrUnsupportedReportType{ReportType: config.Type}
}

func validateData(data shared.ComputedReportData) error {
	if data.ResponseCount < 0 {
		return ErrInvalidReportData{Reason: "response count is negative"}
	}
	for key := range data.Dimensions {
		if key == "" {
			return ErrInvalidReportData{Reason: "dimension key is empty"}
		}
	}
	return nil
}

// resolveLayout falls back to grid for empty or unknown layouts.
func resolveLayout(layout shared.Layout) (shared.Layout, int) {
	switch layout {
	case shared.LayoutSingle:
		return shared.LayoutSingle, 1
	case shared.LayoutThreeColumn:
		return shared.LayoutThreeColumn, 3
	default:
		return shared.LayoutGrid, 2
	}
}

func summaryIndicators(data shared.ComputedReportData) []Widget {
	indicators := make([]Widget, 0, 3)

	if data.OverallScore != nil {
		score := *data.OverallScore
		indicators = append(indicators, Indicator{
			Kind:    KindIndicator,
			ID:      "overall_score",
			Label:   "Overall Score",
			Value:   score,
			Display: formatFixed(score, 1),
			Bar:     &Bar{Percent: clampPercent(score), Tone: toneFor(score)},
		})
	}

	sufficient := data.ResponseCount >= shared.SufficientResponseCount
	note := "Need more responses"
	if sufficient {
		note = "Sufficient data"
	}
	indicators = append(indicators, Indicator{
		Kind:       KindIndicator,
		ID:         "response_count",
		Label:      "Total Responses",
		Value:      float64(data.ResponseCount),
		Display:    fmt.Sprintf("%d", data.ResponseCount),
		Note:       note,
		Sufficient: &sufficient,
	})

	if data.CompletionRate != nil {
		percent := *data.CompletionRate * 100
		indicators = append(indicators, Indicator{
			Kind:    KindIndicator,
			ID:      "completion_rate",
			Label:   "Completion Rate",
			Value:   *data.CompletionRate,
			Display: formatFixed(percent, 1) + "%",
			Bar:     &Bar{Percent: clampPercent(percent), Tone: toneFor(percent)},
		})
	}

	return indicators
}
