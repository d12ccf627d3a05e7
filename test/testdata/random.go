package testdata

import (
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Company() + " " + gofakeit.BuzzWord()
}

func RandomDescription() string {
	return fmt.Sprintf("%s survey for %s", gofakeit.BuzzWord(), gofakeit.JobTitle())
}

func RandomSlug() string {
	return gofakeit.Username()
}

func randomOptions(n int) []string {
	options := make([]string, 0, n)
	seen := make(map[string]bool)
	for len(options) < n {
		word := gofakeit.Word()
		if seen[word] {
			continue
		}
		seen[word] = true
		options = append(options, word)
	}
	return options
}

// RandomSchema returns a single-language schema with one question of every
// known type. Question ids are stable: scale, single, multiple, ranking and
// text.
func RandomSchema() schema.Schema {
	s := schema.NewEmpty(schema.DefaultLanguage)
	optional := false

	s.Sections = []schema.Section{{
		ID:    "main",
		Title: schema.Text(schema.DefaultLanguage, RandomName()),
		Questions: []schema.Question{
			{ID: "scale", Text: schema.Text(schema.DefaultLanguage, "How satisfied are you?"), Type: schema.TypeScale, Scale: &schema.Scale{Min: 1, Max: 5}},
			{ID: "single", Text: schema.Text(schema.DefaultLanguage, "Pick one"), Type: schema.TypeSingleChoice, Options: schema.PlainOptions(randomOptions(3)...)},
			{ID: "multiple", Text: schema.Text(schema.DefaultLanguage, "Pick any"), Type: schema.TypeMultipleChoice, Options: schema.PlainOptions(randomOptions(4)...)},
			{ID: "ranking", Text: schema.Text(schema.DefaultLanguage, "Rank these"), Type: schema.TypeRanking, Options: schema.PlainOptions(randomOptions(3)...)},
			{ID: "text", Text: schema.Text(schema.DefaultLanguage, "Anything else?"), Type: schema.TypeFreeText, Required: &optional},
		},
	}}
	return s
}

// RandomAnswers answers every question of s with a value valid for its type.
func RandomAnswers(s schema.Schema) response.Answers {
	answers := response.Answers{}
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			var options []string
			if q.Options != nil {
				options = q.Options.Plain
			}

			switch q.Type {
			case schema.TypeScale:
				answers[q.ID] = float64(gofakeit.Number(int(q.Scale.Min), int(q.Scale.Max)))
			case schema.TypeSingleChoice:
				answers[q.ID] = gofakeit.RandomString(options)
			case schema.TypeMultipleChoice:
				picked := []any{}
				for _, option := range options {
					if gofakeit.Bool() {
						picked = append(picked, option)
					}
				}
				answers[q.ID] = picked
			case schema.TypeRanking:
				shuffled := append([]string(nil), options...)
				gofakeit.ShuffleStrings(shuffled)
				ranked := make([]any, 0, len(shuffled))
				for _, option := range shuffled {
					ranked = append(ranked, option)
				}
				answers[q.ID] = ranked
			case schema.TypeFreeText:
				answers[q.ID] = gofakeit.HackerPhrase()
			}
		}
	}
	return answers
}
