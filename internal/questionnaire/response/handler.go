package response

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire"
	"context"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SubmitRequest struct {
	Answers Answers `json:"answers" validate:"required"`
}

type Store interface {
	Create(ctx context.Context, questionnaireID, participantID uuid.UUID, answers Answers) (Response, error)
}

type QuestionnaireStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (questionnaire.Detail, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store          Store
	questionnaires QuestionnaireStore
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	store Store,
	questionnaires QuestionnaireStore,
) *Handler {
	return &Handler{
		logger:         logger,
		tracer:         otel.Tracer("response/handler"),
		validator:      validator,
		problemWriter:  problemWriter,
		store:          store,
		questionnaires: questionnaires,
	}
}

// SubmitHandler stores the authenticated participant's answers after
// checking them against the questionnaire schema.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	subject, ok := internal.GetSubjectFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}
	participantID, err := uuid.Parse(subject)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidAuthUser, logger)
		return
	}

	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidQuestionnaireID, logger)
		return
	}

	var req SubmitRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	detail, err := h.questionnaires.GetByID(traceCtx, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	err = Validate(detail.Schema, req.Answers)
	if err != nil {
		span.RecordError(err)
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	created, err := h.store.Create(traceCtx, questionnaireID, participantID, req.Answers)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, created)
}
