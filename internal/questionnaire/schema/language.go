package schema

import "slices"

const DefaultLanguage = "en"

// NewEmpty returns a schema without sections whose only available language
// is the primary one.
func NewEmpty(primary string) Schema {
	if primary == "" {
		primary = DefaultLanguage
	}
	return Schema{
		Sections:           []Section{},
		PrimaryLanguage:    primary,
		AvailableLanguages: []string{primary},
	}
}

// AddLanguage returns a copy of s with language appended to the available
// languages. s is returned unchanged when the language is already present.
func AddLanguage(s Schema, language string) Schema {
	if language == "" || s.HasLanguage(language) {
		return s
	}

	s.AvailableLanguages = append(slices.Clone(s.AvailableLanguages), language)
	return s
}

// Validate checks that every question has an id and that ids are unique
// across the whole schema, not only within a section.
func Validate(s Schema) error {
	seen := make(map[string]struct{})
	for _, section := range s.Sections {
		for i, q := range section.Questions {
			if q.ID == "" {
				return ErrMissingQuestionID{SectionID: section.ID, Index: i}
			}
			if _, exists := seen[q.ID]; exists {
				return ErrDuplicateQuestionID{QuestionID: q.ID, SectionID: section.ID}
			}
			seen[q.ID] = struct{}{}
		}
	}
	return nil
}
