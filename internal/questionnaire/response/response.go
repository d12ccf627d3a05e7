package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Answers maps question ids to decoded JSON answer values: float64 for
// scale, string for single-choice and free-text, []any of strings for
// multiple-choice and ranking.
type Answers map[string]any

// Value returns the answer for a question, treating null like a missing key.
func (a Answers) Value(questionID string) (any, bool) {
	v, ok := a[questionID]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (a Answers) Answered(questionID string) bool {
	v, ok := a.Value(questionID)
	if !ok {
		return false
	}

	switch value := v.(type) {
	case string:
		return value != ""
	case []any:
		return len(value) > 0
	case []string:
		return len(value) > 0
	}
	return true
}

type Response struct {
	ID              uuid.UUID `json:"id"`
	QuestionnaireID uuid.UUID `json:"questionnaireId"`
	ParticipantID   uuid.UUID `json:"participantId"`
	Answers         Answers   `json:"answers"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// DecodeAnswers parses a stored answers document. A null or empty document
// yields an empty map.
func DecodeAnswers(raw []byte) (Answers, error) {
	answers := Answers{}
	if len(raw) == 0 {
		return answers, nil
	}

	err := json.Unmarshal(raw, &answers)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = Answers{}
	}
	return answers, nil
}
