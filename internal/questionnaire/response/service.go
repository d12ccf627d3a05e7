package response

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"context"
	"encoding/json"
	"fmt"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (QuestionnaireResponse, error)
	ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]QuestionnaireResponse, error)
	CountByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) (int64, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("response/service"),
	}
}

// Create stores a submitted response.
func (s *Service) Create(ctx context.Context, questionnaireID, participantID uuid.UUID, answers Answers) (Response, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	if answers == nil {
		answers = Answers{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		logger.Error("Failed to marshal answers", zap.Error(err))
		span.RecordError(err)
		return Response{}, fmt.Errorf("%w: %w", internal.ErrValidationFailed, err)
	}

	row, err := s.queries.Create(traceCtx, CreateParams{
		QuestionnaireID: questionnaireID,
		ParticipantID:   participantID,
		Answers:         raw,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create questionnaire response")
		span.RecordError(err)
		return Response{}, err
	}

	return s.toResponse(row, logger)
}

// ListByQuestionnaireID returns every response of a questionnaire in
// submission order with decoded answers.
func (s *Service) ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]Response, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByQuestionnaireID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	rows, err := s.queries.ListByQuestionnaireID(traceCtx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questionnaire_responses", "questionnaire_id", questionnaireID.String(), logger, "list responses by questionnaire id")
		span.RecordError(err)
		return nil, err
	}

	responses := make([]Response, 0, len(rows))
	for _, row := range rows {
		r, err := s.toResponse(row, logger)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		responses = append(responses, r)
	}

	return responses, nil
}

func (s *Service) CountByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) (int, error) {
	traceCtx, span := s.tracer.Start(ctx, "CountByQuestionnaireID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	count, err := s.queries.CountByQuestionnaireID(traceCtx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questionnaire_responses", "questionnaire_id", questionnaireID.String(), logger, "count responses by questionnaire id")
		span.RecordError(err)
		return 0, err
	}

	return int(count), nil
}

func (s *Service) toResponse(row QuestionnaireResponse, logger *zap.Logger) (Response, error) {
	answers, err := DecodeAnswers(row.Answers)
	if err != nil {
		logger.Error("Failed to decode stored answers", zap.Error(err), zap.String("response_id", row.ID.String()))
		return Response{}, fmt.Errorf("%w: response %s: %w", internal.ErrFailedToUnmarshalAnswer, row.ID, err)
	}

	return Response{
		ID:              row.ID,
		QuestionnaireID: row.QuestionnaireID,
		ParticipantID:   row.ParticipantID,
		Answers:         answers,
		SubmittedAt:     row.SubmittedAt.Time,
	}, nil
}
