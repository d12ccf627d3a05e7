package schema

import "slices"

type LocalizedScale struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	MinLabel string  `json:"minLabel"`
	MaxLabel string  `json:"maxLabel"`
}

type LocalizedQuestion struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Type      Type            `json:"type"`
	Required  bool            `json:"required"`
	Scale     *LocalizedScale `json:"scale,omitempty"`
	Options   []string        `json:"options,omitempty"`
	MaxLength *int            `json:"maxLength,omitempty"`
}

type LocalizedSection struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Questions   []LocalizedQuestion `json:"questions"`
}

type LocalizedSchema struct {
	Language string             `json:"language"`
	Sections []LocalizedSection `json:"sections"`
}

// Resolve reduces every translatable field of the schema to a single
// language. An empty language resolves to the schema's primary language.
func Resolve(s Schema, language string) LocalizedSchema {
	if language == "" {
		language = s.PrimaryLanguage
	}

	sections := make([]LocalizedSection, 0, len(s.Sections))
	for _, section := range s.Sections {
		questions := make([]LocalizedQuestion, 0, len(section.Questions))
		for _, q := range section.Questions {
			questions = append(questions, resolveQuestion(q, language, s.PrimaryLanguage))
		}

		sections = append(sections, LocalizedSection{
			ID:          section.ID,
			Title:       ResolveText(section.Title, language, s.PrimaryLanguage),
			Description: ResolveText(section.Description, language, s.PrimaryLanguage),
			Questions:   questions,
		})
	}

	return LocalizedSchema{
		Language: language,
		Sections: sections,
	}
}

func resolveQuestion(q Question, language, primary string) LocalizedQuestion {
	localized := LocalizedQuestion{
		ID:        q.ID,
		Text:      ResolveText(q.Text, language, primary),
		Type:      q.Type,
		Required:  q.IsRequired(),
		MaxLength: q.MaxLength,
	}

	if q.Scale != nil {
		localized.Scale = &LocalizedScale{
			Min:      q.Scale.Min,
			Max:      q.Scale.Max,
			MinLabel: ResolveText(q.Scale.MinLabel, language, primary),
			MaxLabel: ResolveText(q.Scale.MaxLabel, language, primary),
		}
	}

	if q.Options != nil || q.Type.HasOptions() {
		localized.Options = ResolveOptions(q.Options, language, primary)
	}

	return localized
}

// ResolveText picks the requested language, then the primary language, then
// the first translation in document order. Empty translations are skipped
// for the first two steps.
func ResolveText(text TranslatableText, language, primary string) string {
	for _, lang := range []string{language, primary} {
		s, ok := text.Lookup(lang)
		if ok && s != "" {
			return s
		}
	}

	if len(text) > 0 {
		return text[0].Text
	}
	return ""
}

// ResolveOptions applies the same chain as ResolveText to localized option
// lists. Plain lists are returned as is. The result is never nil.
func ResolveOptions(opts *Options, language, primary string) []string {
	if opts == nil {
		return []string{}
	}

	switch opts.Kind {
	case OptionsPlain:
		return cloneOrEmpty(opts.Plain)
	case OptionsLocalized:
		for _, lang := range []string{language, primary} {
			values, ok := opts.lookup(lang)
			if ok {
				return cloneOrEmpty(values)
			}
		}
		if len(opts.Localized) > 0 {
			return cloneOrEmpty(opts.Localized[0].Values)
		}
	}

	return []string{}
}

func cloneOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
