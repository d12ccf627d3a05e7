package questionnairebuilder

import (
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire"
	"NYCU-SDC/survey-analytics-backend/test/testdata"
	"NYCU-SDC/survey-analytics-backend/test/testdata/dbbuilder"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *questionnaire.Queries {
	return questionnaire.New(b.db)
}

func (b Builder) Create(opts ...Option) questionnaire.Questionnaire {
	queries := b.Queries()

	p := &FactoryParams{
		OrgSlug: testdata.RandomSlug(),
		Title:   testdata.RandomName(),
		Schema:  testdata.RandomSchema(),
	}
	for _, opt := range opts {
		opt(p)
	}

	raw, err := json.Marshal(p.Schema)
	require.NoError(b.t, err)

	row, err := queries.Create(context.Background(), questionnaire.CreateParams{
		OrgSlug: p.OrgSlug,
		Title:   p.Title,
		Schema:  raw,
	})
	require.NoError(b.t, err)

	return row
}
