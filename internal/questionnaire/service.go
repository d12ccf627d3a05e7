package questionnaire

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
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

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Questionnaire, error)
	GetByID(ctx context.Context, id uuid.UUID) (Questionnaire, error)
}

// Detail is a questionnaire with its decoded schema.
type Detail struct {
	ID        uuid.UUID
	OrgSlug   string
	Title     string
	Schema    schema.Schema
	CreatedAt time.Time
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
		tracer:  otel.Tracer("questionnaire/service"),
	}
}

func (s *Service) Create(ctx context.Context, orgSlug, title string, sch schema.Schema) (Detail, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	err := schema.Validate(sch)
	if err != nil {
		span.RecordError(err)
		return Detail{}, err
	}

	raw, err := json.Marshal(sch)
	if err != nil {
		logger.Error("Failed to marshal questionnaire schema", zap.Error(err))
		span.RecordError(err)
		return Detail{}, fmt.Errorf("%w: %w", internal.ErrInvalidSchema, err)
	}

	row, err := s.queries.Create(traceCtx, CreateParams{
		OrgSlug: orgSlug,
		Title:   title,
		Schema:  raw,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create questionnaire")
		span.RecordError(err)
		return Detail{}, err
	}

	return Detail{
		ID:        row.ID,
		OrgSlug:   row.OrgSlug,
		Title:     row.Title,
		Schema:    sch,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}

// GetByID loads a questionnaire and decodes its schema. A missing row is
// reported as internal.ErrQuestionnaireNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Detail, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	row, err := s.queries.GetByID(traceCtx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(err)
			return Detail{}, internal.ErrQuestionnaireNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questionnaires", "id", id.String(), logger, "get questionnaire by id")
		span.RecordError(err)
		return Detail{}, err
	}

	sch, err := schema.Parse(row.Schema)
	if err != nil {
		logger.Error("Failed to parse stored questionnaire schema", zap.Error(err), zap.String("questionnaire_id", id.String()))
		span.RecordError(err)
		return Detail{}, fmt.Errorf("%w: %w", internal.ErrInvalidSchema, err)
	}

	return Detail{
		ID:        row.ID,
		OrgSlug:   row.OrgSlug,
		Title:     row.Title,
		Schema:    sch,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}
