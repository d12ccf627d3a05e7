// Package report generates, stores and renders questionnaire reports. One
// record is kept per questionnaire and built-in template.
package report

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/analytics/aggregate"
	"NYCU-SDC/survey-analytics-backend/internal/locale"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"NYCU-SDC/survey-analytics-backend/internal/report/compose"
	"NYCU-SDC/survey-analytics-backend/internal/report/export"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"NYCU-SDC/survey-analytics-backend/internal/report/template"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ErrNotEnoughResponses struct {
	Required int
	Actual   int
}

func (e ErrNotEnoughResponses) Error() string {
	return fmt.Sprintf("at least %d responses are required to generate reports, got %d", e.Required, e.Actual)
}

func (e ErrNotEnoughResponses) Unwrap() error {
	return internal.ErrInsufficientResponses
}

type Querier interface {
	Upsert(ctx context.Context, arg UpsertParams) (Report, error)
	ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (Report, error)
}

type QuestionnaireStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (questionnaire.Detail, error)
}

type ResponseStore interface {
	ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]response.Response, error)
}

// Record is a stored report with its data decoded.
type Record struct {
	ID              uuid.UUID                 `json:"id"`
	QuestionnaireID uuid.UUID                 `json:"questionnaireId"`
	TemplateID      string                    `json:"templateId"`
	TemplateName    string                    `json:"templateName"`
	Type            shared.ReportType         `json:"type"`
	Language        string                    `json:"language"`
	Status          ReportStatus              `json:"status"`
	ResponseCount   int                       `json:"responseCount"`
	GeneratedAt     time.Time                 `json:"generatedAt"`
	Data            shared.ComputedReportData `json:"data"`
}

type Service struct {
	logger         *zap.Logger
	queries        Querier
	tracer         trace.Tracer
	questionnaires QuestionnaireStore
	responses      ResponseStore
	minResponses   int
}

func NewService(logger *zap.Logger, db DBTX, questionnaires QuestionnaireStore, responses ResponseStore, minResponses int) *Service {
	if minResponses <= 0 {
		minResponses = shared.SufficientResponseCount
	}
	return &Service{
		logger:         logger,
		queries:        New(db),
		tracer:         otel.Tracer("report/service"),
		questionnaires: questionnaires,
		responses:      responses,
		minResponses:   minResponses,
	}
}

// Generate aggregates every question of the questionnaire and stores one
// report per built-in template, replacing earlier reports of the same
// template.
func (s *Service) Generate(ctx context.Context, orgSlug string, questionnaireID uuid.UUID, language string) ([]Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "Generate")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	detail, err := s.ownedQuestionnaire(traceCtx, orgSlug, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	responses, err := s.responses.ListByQuestionnaireID(traceCtx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(responses) < s.minResponses {
		err = ErrNotEnoughResponses{Required: s.minResponses, Actual: len(responses)}
		logger.Info("Skipped report generation", zap.String("questionnaire_id", questionnaireID.String()), zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	lang := locale.Pick(traceCtx, language, detail.Schema)
	questionIDs := schema.QuestionIDs(schema.Resolve(detail.Schema, lang))

	result, err := aggregate.Aggregate(detail.Schema, responses, questionIDs, lang)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	data := Build(detail.Schema, responses, result)
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to marshal report data", zap.Error(err))
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", internal.ErrFailedToMarshalReport, err)
	}

	templates, err := template.List()
	if err != nil {
		logger.Error("Failed to load report templates", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	records := make([]Record, 0, len(templates))
	for _, tmpl := range templates {
		row, err := s.queries.Upsert(traceCtx, UpsertParams{
			QuestionnaireID: questionnaireID,
			TemplateID:      tmpl.ID,
			Type:            string(tmpl.Type),
			Language:        lang,
			Status:          ReportStatusReady,
			ResponseCount:   int32(data.ResponseCount),
			Data:            raw,
		})
		if err != nil {
			err = databaseutil.WrapDBErrorWithKeyValue(err, "reports", "template_id", tmpl.ID, logger, "upsert report")
			span.RecordError(err)
			return nil, err
		}

		record, err := toRecord(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		records = append(records, record)
	}

	logger.Info("Generated reports", zap.String("questionnaire_id", questionnaireID.String()), zap.Int("reports", len(records)), zap.Int("responses", len(responses)))
	return records, nil
}

func (s *Service) ListByQuestionnaireID(ctx context.Context, orgSlug string, questionnaireID uuid.UUID) ([]Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByQuestionnaireID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	_, err := s.ownedQuestionnaire(traceCtx, orgSlug, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rows, err := s.queries.ListByQuestionnaireID(traceCtx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "reports", "questionnaire_id", questionnaireID.String(), logger, "list reports by questionnaire id")
		span.RecordError(err)
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := toRecord(row)
		if err != nil {
			logger.Error("Failed to decode stored report", zap.Error(err), zap.String("report_id", row.ID.String()))
			span.RecordError(err)
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// GetByID returns a stored report of the organization. Reports of other
// organizations are reported as internal.ErrReportNotFound.
func (s *Service) GetByID(ctx context.Context, orgSlug string, id uuid.UUID) (Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()

	record, _, err := s.getOwned(traceCtx, orgSlug, id)
	if err != nil {
		span.RecordError(err)
		return Record{}, err
	}
	return record, nil
}

// Render composes a stored report with the configuration of its template.
func (s *Service) Render(ctx context.Context, orgSlug string, id uuid.UUID) (Record, compose.WidgetTree, error) {
	traceCtx, span := s.tracer.Start(ctx, "Render")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	record, _, err := s.getOwned(traceCtx, orgSlug, id)
	if err != nil {
		span.RecordError(err)
		return Record{}, compose.WidgetTree{}, err
	}

	tmpl, err := template.Get(record.TemplateID)
	if err != nil {
		logger.Warn("Stored report refers to an unknown template", zap.String("template_id", record.TemplateID))
		span.RecordError(err)
		return Record{}, compose.WidgetTree{}, err
	}

	tree, err := compose.Compose(record.Data, tmpl.Config)
	if err != nil {
		logger.Warn("Failed to compose report", zap.Error(err), zap.String("report_id", id.String()))
		span.RecordError(err)
		return Record{}, compose.WidgetTree{}, err
	}

	return record, tree, nil
}

// Export renders a stored report as an XLSX workbook and returns its bytes
// together with a file name.
func (s *Service) Export(ctx context.Context, orgSlug string, id uuid.UUID) ([]byte, string, error) {
	traceCtx, span := s.tracer.Start(ctx, "Export")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	record, detail, err := s.getOwned(traceCtx, orgSlug, id)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	var buf bytes.Buffer
	err = export.Write(&buf, export.Meta{
		QuestionnaireTitle: detail.Title,
		TemplateName:       record.TemplateName,
		Language:           record.Language,
		GeneratedAt:        record.GeneratedAt,
	}, record.Data)
	if err != nil {
		logger.Error("Failed to export report", zap.Error(err), zap.String("report_id", id.String()))
		span.RecordError(err)
		return nil, "", err
	}

	filename := fmt.Sprintf("report-%s-%s.xlsx", record.TemplateID, record.GeneratedAt.UTC().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func (s *Service) Templates(ctx context.Context) ([]template.Template, error) {
	_, span := s.tracer.Start(ctx, "Templates")
	defer span.End()

	templates, err := template.List()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return templates, nil
}

// ownedQuestionnaire loads a questionnaire and hides it when it belongs to
// another organization.
func (s *Service) ownedQuestionnaire(ctx context.Context, orgSlug string, id uuid.UUID) (questionnaire.Detail, error) {
	detail, err := s.questionnaires.GetByID(ctx, id)
	if err != nil {
		return questionnaire.Detail{}, err
	}
	if detail.OrgSlug != orgSlug {
		return questionnaire.Detail{}, internal.ErrQuestionnaireNotFound
	}
	return detail, nil
}

func (s *Service) getOwned(ctx context.Context, orgSlug string, id uuid.UUID) (Record, questionnaire.Detail, error) {
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, questionnaire.Detail{}, internal.ErrReportNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "reports", "id", id.String(), logger, "get report by id")
		return Record{}, questionnaire.Detail{}, err
	}

	detail, err := s.ownedQuestionnaire(ctx, orgSlug, row.QuestionnaireID)
	if err != nil {
		if errors.Is(err, internal.ErrQuestionnaireNotFound) {
			return Record{}, questionnaire.Detail{}, internal.ErrReportNotFound
		}
		return Record{}, questionnaire.Detail{}, err
	}

	record, err := toRecord(row)
	if err != nil {
		logger.Error("Failed to decode stored report", zap.Error(err), zap.String("report_id", id.String()))
		return Record{}, questionnaire.Detail{}, err
	}
	return record, detail, nil
}

func toRecord(row Report) (Record, error) {
	var data shared.ComputedReportData
	err := json.Unmarshal(row.Data, &data)
	if err != nil {
		return Record{}, fmt.Errorf("%w: report %s: %w", internal.ErrReportDataBroken, row.ID, err)
	}

	name := row.TemplateID
	tmpl, err := template.Get(row.TemplateID)
	if err == nil {
		name = tmpl.Name
	}

	return Record{
		ID:              row.ID,
		QuestionnaireID: row.QuestionnaireID,
		TemplateID:      row.TemplateID,
		TemplateName:    name,
		Type:            shared.ReportType(row.Type),
		Language:        row.Language,
		Status:          row.Status,
		ResponseCount:   int(row.ResponseCount),
		GeneratedAt:     row.GeneratedAt.Time,
		Data:            data,
	}, nil
}
