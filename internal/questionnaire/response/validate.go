package response

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"fmt"
	"unicode/utf8"
)

type ErrUnknownQuestion struct {
	QuestionID string
}

func (e ErrUnknownQuestion) Error() string {
	return fmt.Sprintf("question %s does not exist in the questionnaire", e.QuestionID)
}

func (e ErrUnknownQuestion) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidAnswerFormat struct {
	QuestionID string
	Expected   string
}

func (e ErrInvalidAnswerFormat) Error() string {
	return fmt.Sprintf("invalid answer format for question %s, expected %s", e.QuestionID, e.Expected)
}

func (e ErrInvalidAnswerFormat) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidScaleValue struct {
	QuestionID string
	RawValue   float64
	Message    string
}

func (e ErrInvalidScaleValue) Error() string {
	return fmt.Sprintf("invalid value for question %s: %s, raw value: %g", e.QuestionID, e.Message, e.RawValue)
}

func (e ErrInvalidScaleValue) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidChoice struct {
	QuestionID string
	Choice     string
}

func (e ErrInvalidChoice) Error() string {
	return fmt.Sprintf("choice %q not found for question %s", e.Choice, e.QuestionID)
}

func (e ErrInvalidChoice) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidAnswerLength struct {
	QuestionID string
	Max        int
	Given      int
}

func (e ErrInvalidAnswerLength) Error() string {
	return fmt.Sprintf("answer to question %s is too long, max %d, got %d", e.QuestionID, e.Max, e.Given)
}

func (e ErrInvalidAnswerLength) Unwrap() error {
	return internal.ErrValidationFailed
}

// Validate checks submitted answers against the questionnaire schema. Null
// answers are accepted for every question; required questions are not
// enforced because partial responses feed the completion rate.
func Validate(s schema.Schema, answers Answers) error {
	questions := make(map[string]schema.Question)
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			questions[q.ID] = q
		}
	}

	for id, value := range answers {
		q, ok := questions[id]
		if !ok {
			return ErrUnknownQuestion{QuestionID: id}
		}
		if value == nil {
			continue
		}

		err := validateAnswer(q, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateAnswer(q schema.Question, value any) error {
	switch q.Type {
	case schema.TypeScale:
		n, ok := value.(float64)
		if !ok {
			return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "number"}
		}
		if q.Scale != nil && (n < q.Scale.Min || n > q.Scale.Max) {
			return ErrInvalidScaleValue{
				QuestionID: q.ID,
				RawValue:   n,
				Message:    fmt.Sprintf("out of range [%g, %g]", q.Scale.Min, q.Scale.Max),
			}
		}

	case schema.TypeSingleChoice:
		choice, ok := value.(string)
		if !ok {
			return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "string"}
		}
		if choice != "" && !isOption(q.Options, choice) {
			return ErrInvalidChoice{QuestionID: q.ID, Choice: choice}
		}

	case schema.TypeMultipleChoice, schema.TypeRanking:
		list, ok := value.([]any)
		if !ok {
			return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "array of strings"}
		}
		seen := make(map[string]bool, len(list))
		for _, item := range list {
			choice, ok := item.(string)
			if !ok {
				return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "array of strings"}
			}
			if !isOption(q.Options, choice) {
				return ErrInvalidChoice{QuestionID: q.ID, Choice: choice}
			}
			if seen[choice] {
				return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "distinct choices"}
			}
			seen[choice] = true
		}

	case schema.TypeFreeText:
		text, ok := value.(string)
		if !ok {
			return ErrInvalidAnswerFormat{QuestionID: q.ID, Expected: "string"}
		}
		if q.MaxLength != nil && utf8.RuneCountInString(text) > *q.MaxLength {
			return ErrInvalidAnswerLength{QuestionID: q.ID, Max: *q.MaxLength, Given: utf8.RuneCountInString(text)}
		}
	}

	// answers to unknown question types are stored as given
	return nil
}

// isOption accepts a value from any language's option list, since a
// participant answers in the language they were shown.
func isOption(opts *schema.Options, value string) bool {
	if opts == nil {
		return false
	}
	for _, v := range opts.Plain {
		if v == value {
			return true
		}
	}
	for _, list := range opts.Localized {
		for _, v := range list.Values {
			if v == value {
				return true
			}
		}
	}
	return false
}
