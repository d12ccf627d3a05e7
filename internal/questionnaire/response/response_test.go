package response

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnswers_Answered(t *testing.T) {
	answers := Answers{
		"scale":  3.0,
		"zero":   0.0,
		"null":   nil,
		"blank":  "",
		"text":   "fine",
		"empty":  []any{},
		"picked": []any{"a"},
	}

	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{name: "Should count numeric answers", id: "scale", expected: true},
		{name: "Should count zero as an answer", id: "zero", expected: true},
		{name: "Should treat null as unanswered", id: "null", expected: false},
		{name: "Should treat empty string as unanswered", id: "blank", expected: false},
		{name: "Should count non-empty strings", id: "text", expected: true},
		{name: "Should treat empty lists as unanswered", id: "empty", expected: false},
		{name: "Should count non-empty lists", id: "picked", expected: true},
		{name: "Should treat missing keys as unanswered", id: "missing", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, answers.Answered(tc.id))
		})
	}
}

func TestDecodeAnswers(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  Answers
		expectErr bool
	}{
		{name: "Should decode answer types", raw: `{"a":4,"b":"x","c":["p","q"]}`, expected: Answers{"a": 4.0, "b": "x", "c": []any{"p", "q"}}},
		{name: "Should yield empty map for empty document", raw: ``, expected: Answers{}},
		{name: "Should yield empty map for null", raw: `null`, expected: Answers{}},
		{name: "Should reject non-object documents", raw: `[1,2]`, expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answers, err := DecodeAnswers([]byte(tc.raw))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, answers)
		})
	}
}
