package questionnaire

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"context"
	"fmt"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CreateRequest struct {
	Title  string        `json:"title" validate:"required"`
	Schema schema.Schema `json:"schema"`
}

type Response struct {
	ID        string        `json:"id"`
	OrgSlug   string        `json:"orgSlug"`
	Title     string        `json:"title"`
	Schema    schema.Schema `json:"schema"`
	CreatedAt string        `json:"createdAt"`
}

type Store interface {
	Create(ctx context.Context, orgSlug, title string, sch schema.Schema) (Detail, error)
	GetByID(ctx context.Context, id uuid.UUID) (Detail, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	store Store,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("questionnaire/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	slug := r.PathValue("slug")

	var req CreateRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	// a stored schema that fails validation is a server fault, a submitted one
	// is the client's
	err := schema.Validate(req.Schema)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %s", internal.ErrValidationFailed, err.Error()), logger)
		return
	}

	detail, err := h.store.Create(traceCtx, slug, req.Title, req.Schema)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, toResponse(detail))
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidQuestionnaireID, logger)
		return
	}

	detail, err := h.store.GetByID(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(detail))
}

func toResponse(d Detail) Response {
	return Response{
		ID:        d.ID.String(),
		OrgSlug:   d.OrgSlug,
		Title:     d.Title,
		Schema:    d.Schema,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
