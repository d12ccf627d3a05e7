package schema

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"fmt"
)

type ErrDuplicateQuestionID struct {
	QuestionID string
	SectionID  string
}

func (e ErrDuplicateQuestionID) Error() string {
	return fmt.Sprintf("duplicate question id %s in section %s", e.QuestionID, e.SectionID)
}

func (e ErrDuplicateQuestionID) Unwrap() error {
	return internal.ErrInvalidSchema
}

type ErrMissingQuestionID struct {
	SectionID string
	Index     int
}

func (e ErrMissingQuestionID) Error() string {
	return fmt.Sprintf("question at index %d of section %s has no id", e.Index, e.SectionID)
}

func (e ErrMissingQuestionID) Unwrap() error {
	return internal.ErrInvalidSchema
}
