package report

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/report/compose"
	"NYCU-SDC/survey-analytics-backend/internal/report/export"
	"NYCU-SDC/survey-analytics-backend/internal/report/template"
	"context"
	"fmt"
	"net/http"
	"strconv"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type GenerateRequest struct {
	QuestionnaireID string `json:"questionnaireId" validate:"required,uuid"`
	Language        string `json:"language" validate:"omitempty,language"`
}

type RenderResponse struct {
	Report Record             `json:"report"`
	Tree   compose.WidgetTree `json:"tree"`
}

type Store interface {
	Generate(ctx context.Context, orgSlug string, questionnaireID uuid.UUID, language string) ([]Record, error)
	ListByQuestionnaireID(ctx context.Context, orgSlug string, questionnaireID uuid.UUID) ([]Record, error)
	Render(ctx context.Context, orgSlug string, id uuid.UUID) (Record, compose.WidgetTree, error)
	Export(ctx context.Context, orgSlug string, id uuid.UUID) ([]byte, string, error)
	Templates(ctx context.Context) ([]template.Template, error)
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
		tracer:        otel.Tracer("report/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListTemplatesHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	templates, err := h.store.Templates(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, templates)
}

func (h *Handler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GenerateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	slug := r.PathValue("slug")

	var req GenerateRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	questionnaireID, err := handlerutil.ParseUUID(req.QuestionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	records, err := h.store.Generate(traceCtx, slug, questionnaireID, req.Language)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, records)
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	slug := r.PathValue("slug")
	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidQuestionnaireID, logger)
		return
	}

	records, err := h.store.ListByQuestionnaireID(traceCtx, slug, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, records)
}

func (h *Handler) RenderHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RenderHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	slug := r.PathValue("slug")
	id, err := handlerutil.ParseUUID(r.PathValue("reportId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidReportID, logger)
		return
	}

	record, tree, err := h.store.Render(traceCtx, slug, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, RenderResponse{Report: record, Tree: tree})
}

func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	slug := r.PathValue("slug")
	id, err := handlerutil.ParseUUID(r.PathValue("reportId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidReportID, logger)
		return
	}

	content, filename, err := h.store.Export(traceCtx, slug, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(content)
	if err != nil {
		logger.Error("Failed to write exported workbook", zap.Error(err))
	}
}
