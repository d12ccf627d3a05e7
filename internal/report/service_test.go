package report

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"NYCU-SDC/survey-analytics-backend/internal/report/compose"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"NYCU-SDC/survey-analytics-backend/internal/report/template"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Upsert(ctx context.Context, arg UpsertParams) (Report, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(context.Context, UpsertParams) Report); ok {
		return fn(ctx, arg), args.Error(1)
	}
	row, _ := args.Get(0).(Report)
	return row, args.Error(1)
}

func (m *mockQuerier) ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]Report, error) {
	args := m.Called(ctx, questionnaireID)
	rows, _ := args.Get(0).([]Report)
	return rows, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Report, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(Report)
	return row, args.Error(1)
}

type mockQuestionnaireStore struct {
	mock.Mock
}

func (m *mockQuestionnaireStore) GetByID(ctx context.Context, id uuid.UUID) (questionnaire.Detail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(questionnaire.Detail)
	return detail, args.Error(1)
}

type mockResponseStore struct {
	mock.Mock
}

func (m *mockResponseStore) ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]response.Response, error) {
	args := m.Called(ctx, questionnaireID)
	responses, _ := args.Get(0).([]response.Response)
	return responses, args.Error(1)
}

type fixture struct {
	queries        *mockQuerier
	questionnaires *mockQuestionnaireStore
	responses      *mockResponseStore
	service        *Service
}

func newFixture() fixture {
	f := fixture{
		queries:        new(mockQuerier),
		questionnaires: new(mockQuestionnaireStore),
		responses:      new(mockResponseStore),
	}
	f.service = &Service{
		logger:         zap.NewNop(),
		queries:        f.queries,
		tracer:         noop.NewTracerProvider().Tracer("test"),
		questionnaires: f.questionnaires,
		responses:      f.responses,
		minResponses:   shared.SufficientResponseCount,
	}
	return f
}

func surveyDetail(id uuid.UUID) questionnaire.Detail {
	return questionnaire.Detail{
		ID:      id,
		OrgSlug: "sdc",
		Title:   "Team Pulse",
		Schema: schema.Schema{
			PrimaryLanguage:    "en",
			AvailableLanguages: []string{"en"},
			Sections: []schema.Section{{
				ID:    "main",
				Title: schema.Text("en", "Main"),
				Questions: []schema.Question{
					{ID: "mood", Text: schema.Text("en", "Mood"), Type: schema.TypeScale, Scale: &schema.Scale{Min: 1, Max: 5}},
					{ID: "channel", Text: schema.Text("en", "Channel"), Type: schema.TypeSingleChoice, Options: schema.PlainOptions("Chat", "Mail")},
				},
			}},
		},
	}
}

func moodResponses(moods ...float64) []response.Response {
	responses := make([]response.Response, 0, len(moods))
	for _, m := range moods {
		responses = append(responses, response.Response{ID: uuid.New(), Answers: response.Answers{"mood": m, "channel": "Chat"}})
	}
	return responses
}

func storedRow(t *testing.T, templateID string, data shared.ComputedReportData) Report {
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Report{
		ID:              uuid.New(),
		QuestionnaireID: uuid.New(),
		TemplateID:      templateID,
		Type:            "dashboard",
		Language:        "en",
		Status:          ReportStatusReady,
		ResponseCount:   int32(data.ResponseCount),
		Data:            raw,
		GeneratedAt:     pgtype.Timestamptz{Time: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), Valid: true},
	}
}

func TestService_Generate(t *testing.T) {
	id := uuid.New()

	t.Run("Should store one report per template", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("GetByID", mock.Anything, id).Return(surveyDetail(id), nil)
		f.responses.On("ListByQuestionnaireID", mock.Anything, id).Return(moodResponses(5, 4, 3, 4, 4), nil)
		f.queries.On("Upsert", mock.Anything, mock.Anything).Return(func(_ context.Context, arg UpsertParams) Report {
			return Report{
				ID:              uuid.New(),
				QuestionnaireID: arg.QuestionnaireID,
				TemplateID:      arg.TemplateID,
				Type:            arg.Type,
				Language:        arg.Language,
				Status:          arg.Status,
				ResponseCount:   arg.ResponseCount,
				Data:            arg.Data,
			}
		}, nil)

		records, err := f.service.Generate(context.Background(), "sdc", id, "")
		require.NoError(t, err)

		templates, err := template.List()
		require.NoError(t, err)
		require.Len(t, records, len(templates))
		f.queries.AssertNumberOfCalls(t, "Upsert", len(templates))

		record := records[0]
		require.Equal(t, "en", record.Language)
		require.Equal(t, 5, record.ResponseCount)
		require.Equal(t, ReportStatusReady, record.Status)
		require.Equal(t, 4.0, record.Data.Dimensions["mood"].Value)
		require.Equal(t, "Chat", record.Data.Metrics["channel.top_answer"])
		require.NotEmpty(t, record.TemplateName)
	})

	t.Run("Should refuse to generate below the response threshold", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("GetByID", mock.Anything, id).Return(surveyDetail(id), nil)
		f.responses.On("ListByQuestionnaireID", mock.Anything, id).Return(moodResponses(5, 4, 3, 4), nil)

		_, err := f.service.Generate(context.Background(), "sdc", id, "")
		require.ErrorIs(t, err, internal.ErrInsufficientResponses)

		var notEnough ErrNotEnoughResponses
		require.True(t, errors.As(err, &notEnough))
		require.Equal(t, ErrNotEnoughResponses{Required: 5, Actual: 4}, notEnough)
		f.queries.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should hide questionnaires of other organizations", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("GetByID", mock.Anything, id).Return(surveyDetail(id), nil)

		_, err := f.service.Generate(context.Background(), "elsewhere", id, "")
		require.ErrorIs(t, err, internal.ErrQuestionnaireNotFound)
	})
}

func TestService_GetByID(t *testing.T) {
	tests := []struct {
		name        string
		orgSlug     string
		row         Report
		queryErr    error
		expectedErr error
	}{
		{
			name:    "Should decode stored data",
			orgSlug: "sdc",
			row:     storedRow(t, "executive-dashboard", shared.ComputedReportData{ResponseCount: 6}),
		},
		{
			name:        "Should map missing rows to report not found",
			orgSlug:     "sdc",
			queryErr:    pgx.ErrNoRows,
			expectedErr: internal.ErrReportNotFound,
		},
		{
			name:        "Should return not found for a report of another organization",
			orgSlug:     "elsewhere",
			row:         storedRow(t, "executive-dashboard", shared.ComputedReportData{ResponseCount: 6}),
			expectedErr: internal.ErrReportNotFound,
		},
		{
			name:        "Should flag undecodable data",
			orgSlug:     "sdc",
			row:         Report{ID: uuid.New(), QuestionnaireID: uuid.New(), TemplateID: "executive-dashboard", Data: []byte(`[]`)},
			expectedErr: internal.ErrReportDataBroken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			id := uuid.New()
			f.queries.On("GetByID", mock.Anything, id).Return(tc.row, tc.queryErr)
			f.questionnaires.On("GetByID", mock.Anything, tc.row.QuestionnaireID).Return(surveyDetail(tc.row.QuestionnaireID), nil).Maybe()

			record, err := f.service.GetByID(context.Background(), tc.orgSlug, id)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Executive Dashboard", record.TemplateName)
			require.Equal(t, 6, record.Data.ResponseCount)
		})
	}
}

func TestService_ListByQuestionnaireID(t *testing.T) {
	id := uuid.New()

	t.Run("Should list reports of the organization", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("GetByID", mock.Anything, id).Return(surveyDetail(id), nil)
		f.queries.On("ListByQuestionnaireID", mock.Anything, id).Return([]Report{storedRow(t, "executive-dashboard", shared.ComputedReportData{ResponseCount: 5})}, nil)

		records, err := f.service.ListByQuestionnaireID(context.Background(), "sdc", id)
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("Should return not found for a questionnaire of another organization", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("GetByID", mock.Anything, id).Return(surveyDetail(id), nil)

		_, err := f.service.ListByQuestionnaireID(context.Background(), "elsewhere", id)
		require.ErrorIs(t, err, internal.ErrQuestionnaireNotFound)
		f.queries.AssertNotCalled(t, "ListByQuestionnaireID", mock.Anything, mock.Anything)
	})
}

func TestService_Render(t *testing.T) {
	data := shared.ComputedReportData{
		ResponseCount: 6,
		Dimensions: map[string]shared.Dimension{
			"mood": {Value: 4, Scale: &shared.Scale{Min: 1, Max: 5}, Responses: 6},
		},
		Metrics: map[string]any{},
	}

	t.Run("Should compose with the stored template", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		row := storedRow(t, "executive-dashboard", data)
		f.queries.On("GetByID", mock.Anything, id).Return(row, nil)
		f.questionnaires.On("GetByID", mock.Anything, row.QuestionnaireID).Return(surveyDetail(row.QuestionnaireID), nil)

		_, tree, err := f.service.Render(context.Background(), "sdc", id)
		require.NoError(t, err)
		require.Equal(t, shared.ReportTypeDashboard, tree.Type)
		require.Len(t, tree.Widgets, 1)
		require.Equal(t, compose.KindChart, tree.Widgets[0].WidgetKind())
	})

	t.Run("Should fail for reports of removed templates", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		row := storedRow(t, "retired-template", data)
		f.queries.On("GetByID", mock.Anything, id).Return(row, nil)
		f.questionnaires.On("GetByID", mock.Anything, row.QuestionnaireID).Return(surveyDetail(row.QuestionnaireID), nil)

		_, _, err := f.service.Render(context.Background(), "sdc", id)
		require.ErrorIs(t, err, internal.ErrTemplateNotFound)
	})

	t.Run("Should return not found for a report of another organization", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		row := storedRow(t, "executive-dashboard", data)
		f.queries.On("GetByID", mock.Anything, id).Return(row, nil)
		f.questionnaires.On("GetByID", mock.Anything, row.QuestionnaireID).Return(surveyDetail(row.QuestionnaireID), nil)

		_, _, err := f.service.Render(context.Background(), "elsewhere", id)
		require.ErrorIs(t, err, internal.ErrReportNotFound)
	})
}

func TestService_Export(t *testing.T) {
	t.Run("Should write a workbook named after the template", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		row := storedRow(t, "printable-summary", shared.ComputedReportData{ResponseCount: 5})
		f.queries.On("GetByID", mock.Anything, id).Return(row, nil)
		f.questionnaires.On("GetByID", mock.Anything, row.QuestionnaireID).Return(surveyDetail(row.QuestionnaireID), nil)

		content, filename, err := f.service.Export(context.Background(), "sdc", id)
		require.NoError(t, err)
		require.NotEmpty(t, content)
		require.Equal(t, "report-printable-summary-20260601.xlsx", filename)
	})

	t.Run("Should return not found for a report of another organization", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		row := storedRow(t, "printable-summary", shared.ComputedReportData{ResponseCount: 5})
		f.queries.On("GetByID", mock.Anything, id).Return(row, nil)
		f.questionnaires.On("GetByID", mock.Anything, row.QuestionnaireID).Return(surveyDetail(row.QuestionnaireID), nil)

		content, _, err := f.service.Export(context.Background(), "elsewhere", id)
		require.ErrorIs(t, err, internal.ErrReportNotFound)
		require.Empty(t, content)
	})
}
