package questionnairebuilder

import (
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	OrgSlug string
	Title   string
	Schema  schema.Schema
}

func WithOrgSlug(slug string) Option {
	return func(p *FactoryParams) {
		p.OrgSlug = slug
	}
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) {
		p.Title = title
	}
}

func WithSchema(s schema.Schema) Option {
	return func(p *FactoryParams) {
		p.Schema = s
	}
}
