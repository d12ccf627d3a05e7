// Package analytics exposes per-question aggregation of a questionnaire's
// responses over HTTP.
package analytics

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/analytics/aggregate"
	"NYCU-SDC/survey-analytics-backend/internal/locale"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"context"
	"errors"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const NoResponsesMessage = "No responses available"

type QuestionnaireStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (questionnaire.Detail, error)
}

type ResponseStore interface {
	ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]response.Response, error)
}

// Result is an aggregation enriched with the questionnaire it belongs to.
type Result struct {
	QuestionnaireID    uuid.UUID `json:"questionnaireId"`
	QuestionnaireTitle string    `json:"questionnaireTitle"`
	Language           string    `json:"language"`
	aggregate.Result
	Message string `json:"message,omitempty"`
}

type Service struct {
	logger         *zap.Logger
	tracer         trace.Tracer
	questionnaires QuestionnaireStore
	responses      ResponseStore
}

func NewService(logger *zap.Logger, questionnaires QuestionnaireStore, responses ResponseStore) *Service {
	return &Service{
		logger:         logger,
		tracer:         otel.Tracer("analytics/service"),
		questionnaires: questionnaires,
		responses:      responses,
	}
}

// Aggregate computes statistics for the selected questions of a
// questionnaire owned by orgSlug. A questionnaire without responses yields
// an empty result carrying NoResponsesMessage instead of an error.
func (s *Service) Aggregate(ctx context.Context, orgSlug string, questionnaireID uuid.UUID, questionIDs []string, language string) (Result, error) {
	traceCtx, span := s.tracer.Start(ctx, "Aggregate")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	if len(questionIDs) == 0 {
		err := aggregate.ErrNoQuestionsSelected{}
		span.RecordError(err)
		return Result{}, err
	}

	detail, err := s.questionnaires.GetByID(traceCtx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	if detail.OrgSlug != orgSlug {
		logger.Warn("Questionnaire requested through another organization", zap.String("questionnaire_id", questionnaireID.String()), zap.String("org_slug", orgSlug), zap.String("owner_slug", detail.OrgSlug))
		span.RecordError(internal.ErrQuestionnaireNotFound)
		return Result{}, internal.ErrQuestionnaireNotFound
	}

	responses, err := s.responses.ListByQuestionnaireID(traceCtx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	lang := locale.Pick(traceCtx, language, detail.Schema)
	base := Result{
		QuestionnaireID:    detail.ID,
		QuestionnaireTitle: detail.Title,
		Language:           lang,
	}

	result, err := aggregate.Aggregate(detail.Schema, responses, questionIDs, lang)
	if err != nil {
		if errors.Is(err, internal.ErrInsufficientData) {
			logger.Warn("No responses to aggregate", zap.String("questionnaire_id", questionnaireID.String()))
			base.Result = aggregate.Result{Questions: map[string]aggregate.QuestionResult{}}
			base.Message = NoResponsesMessage
			return base, nil
		}
		span.RecordError(err)
		return Result{}, err
	}

	for _, id := range questionIDs {
		question, ok := result.Questions[id]
		if !ok {
			logger.Debug("Skipped unknown question id", zap.String("question_id", id))
			continue
		}
		if question.Count() == 0 {
			logger.Debug("Question has no usable answers", zap.String("question_id", id), zap.String("type", string(question.QuestionType())))
		}
	}

	base.Result = result
	return base, nil
}
