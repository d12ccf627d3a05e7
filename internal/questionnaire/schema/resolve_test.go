package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func multilingualSchema() Schema {
	return Schema{
		PrimaryLanguage:    "de",
		AvailableLanguages: []string{"de", "en"},
		Sections: []Section{
			{
				ID:          "s1",
				Title:       Text("en", "Leadership", "de", "Führung"),
				Description: Text("en", "How your team is led"),
				Questions: []Question{
					{
						ID:   "q1",
						Text: Text("en", "How clear are goals?", "de", "Wie klar sind die Ziele?"),
						Type: TypeScale,
						Scale: &Scale{
							Min:      1,
							Max:      5,
							MinLabel: Text("en", "Unclear", "de", "Unklar"),
							MaxLabel: Text("en", "Very clear"),
						},
					},
					{
						ID:       "q2",
						Text:     Text("en", "Preferred channel"),
						Type:     TypeSingleChoice,
						Required: boolPtr(false),
						Options: LocalizedOptions(
							OptionList{Language: "en", Values: []string{"Email", "Chat"}},
							OptionList{Language: "de", Values: []string{"E-Mail", "Chat"}},
						),
					},
				},
			},
			{
				ID:    "s2",
				Title: Text("fr", "Divers", "en", "Misc"),
				Questions: []Question{
					{
						ID:      "q3",
						Text:    Text("en", "Rank"),
						Type:    TypeRanking,
						Options: PlainOptions("A", "B", "C"),
					},
					{
						ID:   "q4",
						Text: Text("en", "Anything else?"),
						Type: TypeMultipleChoice,
					},
				},
			},
		},
	}
}

func TestResolveText(t *testing.T) {
	tests := []struct {
		name     string
		text     TranslatableText
		language string
		primary  string
		expected string
	}{
		{
			name:     "Should return requested language when present",
			text:     Text("en", "Hello", "de", "Hallo"),
			language: "de",
			primary:  "en",
			expected: "Hallo",
		},
		{
			name:     "Should fall back to primary language",
			text:     Text("en", "Hello", "de", "Hallo"),
			language: "fr",
			primary:  "de",
			expected: "Hallo",
		},
		{
			name:     "Should fall back to first entry in document order",
			text:     Text("de", "Hallo", "en", "Hello"),
			language: "fr",
			primary:  "it",
			expected: "Hallo",
		},
		{
			name:     "Should skip empty requested translation",
			text:     Text("en", "Hello", "de", ""),
			language: "de",
			primary:  "en",
			expected: "Hello",
		},
		{
			name:     "Should return empty string when nothing is translated",
			text:     nil,
			language: "en",
			primary:  "en",
			expected: "",
		},
		{
			name:     "Should return plain legacy text for any language",
			text:     TranslatableText{{Text: "Legacy"}},
			language: "de",
			primary:  "en",
			expected: "Legacy",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ResolveText(tc.text, tc.language, tc.primary))
		})
	}
}

func TestResolveOptions(t *testing.T) {
	localized := LocalizedOptions(
		OptionList{Language: "de", Values: []string{"Ja", "Nein"}},
		OptionList{Language: "en", Values: []string{"Yes", "No"}},
	)

	tests := []struct {
		name     string
		options  *Options
		language string
		primary  string
		expected []string
	}{
		{
			name:     "Should pass plain options through unchanged",
			options:  PlainOptions("A", "B"),
			language: "de",
			primary:  "en",
			expected: []string{"A", "B"},
		},
		{
			name:     "Should pick requested language list",
			options:  localized,
			language: "en",
			primary:  "de",
			expected: []string{"Yes", "No"},
		},
		{
			name:     "Should fall back to primary language list",
			options:  localized,
			language: "fr",
			primary:  "en",
			expected: []string{"Yes", "No"},
		},
		{
			name:     "Should fall back to first list",
			options:  localized,
			language: "fr",
			primary:  "it",
			expected: []string{"Ja", "Nein"},
		},
		{
			name:     "Should degrade to empty list when options are missing",
			options:  nil,
			language: "en",
			primary:  "en",
			expected: []string{},
		},
		{
			name:     "Should degrade to empty list when localized map is empty",
			options:  LocalizedOptions(),
			language: "en",
			primary:  "en",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ResolveOptions(tc.options, tc.language, tc.primary))
		})
	}
}

func TestResolveOptions_ReturnsCopy(t *testing.T) {
	opts := PlainOptions("A", "B")

	resolved := ResolveOptions(opts, "en", "en")
	resolved[0] = "changed"

	require.Equal(t, []string{"A", "B"}, opts.Plain)
}

func TestResolve(t *testing.T) {
	s := multilingualSchema()

	t.Run("Should resolve requested language", func(t *testing.T) {
		localized := Resolve(s, "en")

		require.Equal(t, "en", localized.Language)
		require.Len(t, localized.Sections, 2)
		require.Equal(t, "Leadership", localized.Sections[0].Title)
		require.Equal(t, "How your team is led", localized.Sections[0].Description)

		q1 := localized.Sections[0].Questions[0]
		require.Equal(t, "How clear are goals?", q1.Text)
		require.True(t, q1.Required)
		require.Equal(t, &LocalizedScale{Min: 1, Max: 5, MinLabel: "Unclear", MaxLabel: "Very clear"}, q1.Scale)
		require.Nil(t, q1.Options)

		q2 := localized.Sections[0].Questions[1]
		require.False(t, q2.Required)
		require.Equal(t, []string{"Email", "Chat"}, q2.Options)
	})

	t.Run("Should fall back to primary then first entry for unknown language", func(t *testing.T) {
		localized := Resolve(s, "fr")

		require.Equal(t, "Führung", localized.Sections[0].Title)
		require.Equal(t, "Wie klar sind die Ziele?", localized.Sections[0].Questions[0].Text)
		require.Equal(t, "Very clear", localized.Sections[0].Questions[0].Scale.MaxLabel)
		require.Equal(t, []string{"E-Mail", "Chat"}, localized.Sections[0].Questions[1].Options)
		// "fr" exists on this section title only
		require.Equal(t, "Divers", localized.Sections[1].Title)
	})

	t.Run("Should use primary language when none is requested", func(t *testing.T) {
		localized := Resolve(s, "")

		require.Equal(t, "de", localized.Language)
		require.Equal(t, "Führung", localized.Sections[0].Title)
	})

	t.Run("Should give choice questions without options an empty list", func(t *testing.T) {
		localized := Resolve(s, "en")

		require.Equal(t, []string{}, localized.Sections[1].Questions[1].Options)
		require.Equal(t, []string{"A", "B", "C"}, localized.Sections[1].Questions[0].Options)
	})
}
