// Package export writes stored report data as an XLSX workbook with a
// Summary, a Dimensions and a Metrics sheet.
package export

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary    = "Summary"
	SheetDimensions = "Dimensions"
	SheetMetrics    = "Metrics"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Meta struct {
	QuestionnaireTitle string
	TemplateName       string
	Language           string
	GeneratedAt        time.Time
}

// Write renders data into a new workbook and writes it to w.
func Write(w io.Writer, meta Meta, data shared.ComputedReportData) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	err := build(f, meta, data)
	if err != nil {
		return fmt.Errorf("%w: %w", internal.ErrFailedToExportWorkbook, err)
	}

	_, err = f.WriteTo(w)
	if err != nil {
		return fmt.Errorf("%w: %w", internal.ErrFailedToExportWorkbook, err)
	}
	return nil
}

func build(f *excelize.File, meta Meta, data shared.ComputedReportData) error {
	err := f.SetSheetName("Sheet1", SheetSummary)
	if err != nil {
		return err
	}
	for _, name := range []string{SheetDimensions, SheetMetrics} {
		_, err = f.NewSheet(name)
		if err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	err = writeRows(f, SheetSummary, header, summaryRows(meta, data))
	if err != nil {
		return err
	}
	err = writeRows(f, SheetDimensions, header, dimensionRows(data))
	if err != nil {
		return err
	}
	err = writeRows(f, SheetMetrics, header, metricRows(data))
	if err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

// writeRows writes rows from A1 down and styles the first row as header.
func writeRows(f *excelize.File, sheet string, headerStyle int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return err
		}
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	err = f.SetCellStyle(sheet, "A1", last, headerStyle)
	if err != nil {
		return err
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 24)
}

func summaryRows(meta Meta, data shared.ComputedReportData) [][]any {
	rows := [][]any{
		{"Field", "Value"},
		{"Questionnaire", meta.QuestionnaireTitle},
		{"Template", meta.TemplateName},
		{"Language", meta.Language},
		{"Generated At", meta.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Total Responses", data.ResponseCount},
	}
	if data.OverallScore != nil {
		rows = append(rows, []any{"Overall Score", *data.OverallScore})
	}
	if data.CompletionRate != nil {
		rows = append(rows, []any{"Completion Rate", *data.CompletionRate})
	}
	return rows
}

func dimensionRows(data shared.ComputedReportData) [][]any {
	rows := [][]any{{"Dimension", "Score", "Scale Min", "Scale Max", "Percent", "Responses"}}
	for _, key := range slices.Sorted(maps.Keys(data.Dimensions)) {
		dim := data.Dimensions[key]
		scale := dim.ScaleOrDefault()
		rows = append(rows, []any{key, dim.Value, scale.Min, scale.Max, dim.Percent(), dim.Responses})
	}
	return rows
}

func metricRows(data shared.ComputedReportData) [][]any {
	rows := [][]any{{"Metric", "Value"}}
	for _, key := range slices.Sorted(maps.Keys(data.Metrics)) {
		rows = append(rows, []any{key, data.Metrics[key]})
	}
	return rows
}
