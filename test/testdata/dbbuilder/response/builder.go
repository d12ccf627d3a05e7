package responsebuilder

import (
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"NYCU-SDC/survey-analytics-backend/test/testdata"
	"NYCU-SDC/survey-analytics-backend/test/testdata/dbbuilder"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	ParticipantID uuid.UUID
	Answers       response.Answers
}

func WithParticipant(id uuid.UUID) Option {
	return func(p *FactoryParams) {
		p.ParticipantID = id
	}
}

func WithAnswers(answers response.Answers) Option {
	return func(p *FactoryParams) {
		p.Answers = answers
	}
}

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *response.Queries {
	return response.New(b.db)
}

// Create stores one response to questionnaireID. Without WithAnswers the
// answers are generated from s.
func (b Builder) Create(questionnaireID uuid.UUID, s schema.Schema, opts ...Option) response.QuestionnaireResponse {
	p := &FactoryParams{
		ParticipantID: uuid.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Answers == nil {
		p.Answers = testdata.RandomAnswers(s)
	}

	raw, err := json.Marshal(p.Answers)
	require.NoError(b.t, err)

	row, err := b.Queries().Create(context.Background(), response.CreateParams{
		QuestionnaireID: questionnaireID,
		ParticipantID:   p.ParticipantID,
		Answers:         raw,
	})
	require.NoError(b.t, err)

	return row
}

func (b Builder) CreateMany(questionnaireID uuid.UUID, s schema.Schema, n int) []response.QuestionnaireResponse {
	rows := make([]response.QuestionnaireResponse, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, b.Create(questionnaireID, s))
	}
	return rows
}
