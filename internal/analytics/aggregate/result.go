package aggregate

import (
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"slices"
)

// QuestionResult is implemented by exactly one result shape per question
// type plus UnknownResult for types this service does not aggregate.
type QuestionResult interface {
	QuestionType() schema.Type
	Count() int
	isQuestionResult()
}

type Base struct {
	QuestionText string      `json:"questionText"`
	SectionTitle string      `json:"sectionTitle"`
	Type         schema.Type `json:"type"`
}

func (b Base) QuestionType() schema.Type { return b.Type }

func (Base) isQuestionResult() {}

type ScaleResult struct {
	Base
	Scale         *schema.LocalizedScale `json:"scale,omitempty"`
	ResponseCount int                    `json:"responseCount"`
	Average       float64                `json:"average"`
	Median        float64                `json:"median"`
	Min           float64                `json:"min"`
	Max           float64                `json:"max"`
	Distribution  map[string]int         `json:"distribution"`
}

func (r ScaleResult) Count() int { return r.ResponseCount }

type SingleChoiceResult struct {
	Base
	Options       []string       `json:"options"`
	ResponseCount int            `json:"responseCount"`
	Distribution  map[string]int `json:"distribution"`
	TopAnswer     *string        `json:"topAnswer"`
}

func (r SingleChoiceResult) Count() int { return r.ResponseCount }

type MultipleChoiceResult struct {
	Base
	Options         []string       `json:"options"`
	ResponseCount   int            `json:"responseCount"`
	TotalSelections int            `json:"totalSelections"`
	Distribution    map[string]int `json:"distribution"`
}

func (r MultipleChoiceResult) Count() int { return r.ResponseCount }

type RankingResult struct {
	Base
	Options       []string           `json:"options"`
	ResponseCount int                `json:"responseCount"`
	AverageRanks  map[string]float64 `json:"averageRanks"`
	RankCounts    map[string]int     `json:"rankCounts"`
}

func (r RankingResult) Count() int { return r.ResponseCount }

// TopRanked returns the option with the lowest average rank. Ties go to the
// option listed first.
func (r RankingResult) TopRanked() (string, bool) {
	best := ""
	found := false
	for _, option := range r.candidates() {
		avg, ok := r.AverageRanks[option]
		if !ok {
			continue
		}
		if !found || avg < r.AverageRanks[best] {
			best = option
			found = true
		}
	}
	return best, found
}

// candidates lists declared options first, then ranked values that were not
// declared, in a stable order.
func (r RankingResult) candidates() []string {
	seen := make(map[string]struct{}, len(r.Options))
	out := make([]string, 0, len(r.AverageRanks))
	for _, option := range r.Options {
		seen[option] = struct{}{}
		out = append(out, option)
	}
	extra := make([]string, 0)
	for option := range r.AverageRanks {
		if _, ok := seen[option]; !ok {
			extra = append(extra, option)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

type FreeTextResult struct {
	Base
	MaxLength     *int     `json:"maxLength,omitempty"`
	ResponseCount int      `json:"responseCount"`
	Responses     []string `json:"responses"`
}

func (r FreeTextResult) Count() int { return r.ResponseCount }

// UnknownResult carries only basic information for question types without
// a dedicated aggregation.
type UnknownResult struct {
	Base
	ResponseCount int `json:"responseCount"`
}

func (r UnknownResult) Count() int { return r.ResponseCount }

type Result struct {
	Questions     map[string]QuestionResult `json:"questions"`
	ResponseCount int                       `json:"responseCount"`
}
