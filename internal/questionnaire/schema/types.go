package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

type Type string

const (
	TypeScale          Type = "scale"
	TypeSingleChoice   Type = "single-choice"
	TypeMultipleChoice Type = "multiple-choice"
	TypeRanking        Type = "ranking"
	TypeFreeText       Type = "free-text"
)

func (t Type) Known() bool {
	switch t {
	case TypeScale, TypeSingleChoice, TypeMultipleChoice, TypeRanking, TypeFreeText:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option list.
func (t Type) HasOptions() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice || t == TypeRanking
}

type Translation struct {
	Language string
	Text     string
}

// TranslatableText keeps translations in document order so that the
// "first available entry" fallback is stable across decode/encode cycles.
// A plain JSON string decodes into a single translation without a language.
type TranslatableText []Translation

func Text(pairs ...string) TranslatableText {
	text := make(TranslatableText, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		text = append(text, Translation{Language: pairs[i], Text: pairs[i+1]})
	}
	return text
}

func (t TranslatableText) Lookup(language string) (string, bool) {
	for _, tr := range t {
		if tr.Language == language {
			return tr.Text, true
		}
	}
	return "", false
}

func (t *TranslatableText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*t = TranslatableText{{Text: s}}
		return nil
	}

	var text TranslatableText
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var s string
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("translation %q: %w", key, err)
		}
		text = append(text, Translation{Language: key, Text: s})
		return nil
	})
	if err != nil {
		return err
	}

	*t = text
	return nil
}

func (t TranslatableText) MarshalJSON() ([]byte, error) {
	if len(t) == 1 && t[0].Language == "" {
		return json.Marshal(t[0].Text)
	}

	return encodeOrderedObject(len(t), func(i int) (string, any) {
		return t[i].Language, t[i].Text
	})
}

type OptionsKind string

const (
	OptionsPlain     OptionsKind = "plain"
	OptionsLocalized OptionsKind = "localized"
)

type OptionList struct {
	Language string
	Values   []string
}

// Options is either a plain ordered list shared by every language or an
// ordered mapping from language to list. Kind selects which field is set.
type Options struct {
	Kind      OptionsKind
	Plain     []string
	Localized []OptionList
}

func PlainOptions(values ...string) *Options {
	return &Options{Kind: OptionsPlain, Plain: values}
}

func LocalizedOptions(lists ...OptionList) *Options {
	return &Options{Kind: OptionsLocalized, Localized: lists}
}

func (o *Options) lookup(language string) ([]string, bool) {
	for _, list := range o.Localized {
		if list.Language == language && list.Values != nil {
			return list.Values, true
		}
	}
	return nil, false
}

func (o *Options) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("options: empty input")
	}

	switch data[0] {
	case '[':
		var values []string
		err := json.Unmarshal(data, &values)
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		*o = Options{Kind: OptionsPlain, Plain: values}
		return nil
	case '{':
		var lists []OptionList
		err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
			var values []string
			if err := dec.Decode(&values); err != nil {
				return fmt.Errorf("options %q: %w", key, err)
			}
			lists = append(lists, OptionList{Language: key, Values: values})
			return nil
		})
		if err != nil {
			return err
		}
		*o = Options{Kind: OptionsLocalized, Localized: lists}
		return nil
	}

	return fmt.Errorf("options: expected array or object, got %q", data[0])
}

func (o Options) MarshalJSON() ([]byte, error) {
	if o.Kind == OptionsLocalized {
		return encodeOrderedObject(len(o.Localized), func(i int) (string, any) {
			return o.Localized[i].Language, o.Localized[i].Values
		})
	}

	values := o.Plain
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

type Scale struct {
	Min      float64          `json:"min"`
	Max      float64          `json:"max"`
	MinLabel TranslatableText `json:"minLabel,omitempty"`
	MaxLabel TranslatableText `json:"maxLabel,omitempty"`
}

type Question struct {
	ID        string           `json:"id"`
	Text      TranslatableText `json:"text"`
	Type      Type             `json:"type"`
	Required  *bool            `json:"required,omitempty"`
	Scale     *Scale           `json:"scale,omitempty"`
	Options   *Options         `json:"options,omitempty"`
	MaxLength *int             `json:"maxLength,omitempty"`
}

// IsRequired defaults to true when the flag is absent.
func (q Question) IsRequired() bool {
	return q.Required == nil || *q.Required
}

type Section struct {
	ID          string           `json:"id"`
	Title       TranslatableText `json:"title"`
	Description TranslatableText `json:"description,omitempty"`
	Questions   []Question       `json:"questions"`
}

type Schema struct {
	Sections           []Section `json:"sections"`
	PrimaryLanguage    string    `json:"primaryLanguage,omitempty"`
	AvailableLanguages []string  `json:"availableLanguages,omitempty"`
}

// Parse decodes a stored questionnaire schema document.
func Parse(data []byte) (Schema, error) {
	var s Schema
	err := json.Unmarshal(data, &s)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: %w", err)
	}
	return s, nil
}

func (s Schema) HasLanguage(language string) bool {
	return slices.Contains(s.AvailableLanguages, language)
}

func decodeOrderedObject(data []byte, fn func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		err = fn(key, dec)
		if err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func encodeOrderedObject(n int, entry func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := entry(i)

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
