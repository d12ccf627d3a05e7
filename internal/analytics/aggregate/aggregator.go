// Package aggregate computes per-question statistics over a set of
// questionnaire responses. It performs no I/O.
package aggregate

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/analytics/stats"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"encoding/json"
	"strconv"
	"strings"
)

type ErrNoQuestionsSelected struct{}

func (e ErrNoQuestionsSelected) Error() string {
	return "at least one question id must be selected"
}

func (e ErrNoQuestionsSelected) Unwrap() error {
	return internal.ErrValidationFailed
}

// Aggregate resolves the schema into language and computes one result per
// selected question id. Ids missing from the schema are skipped. An empty
// response set returns internal.ErrInsufficientData.
func Aggregate(s schema.Schema, responses []response.Response, questionIDs []string, language string) (Result, error) {
	if len(questionIDs) == 0 {
		return Result{}, ErrNoQuestionsSelected{}
	}
	if len(responses) == 0 {
		return Result{}, internal.ErrInsufficientData
	}

	localized := schema.Resolve(s, language)

	questions := make(map[string]QuestionResult, len(questionIDs))
	for _, id := range questionIDs {
		entry, found := schema.Find(localized, id)
		if !found {
			continue
		}
		questions[id] = aggregateQuestion(entry, rawValues(responses, id))
	}

	return Result{
		Questions:     questions,
		ResponseCount: len(responses),
	}, nil
}

// rawValues collects the answer for questionID from every response,
// dropping only missing and null answers.
func rawValues(responses []response.Response, questionID string) []any {
	values := make([]any, 0, len(responses))
	for _, r := range responses {
		v, ok := r.Answers.Value(questionID)
		if ok {
			values = append(values, v)
		}
	}
	return values
}

func aggregateQuestion(entry schema.Entry, values []any) QuestionResult {
	q := entry.Question
	base := Base{
		QuestionText: q.Text,
		SectionTitle: entry.SectionTitle,
		Type:         q.Type,
	}

	switch q.Type {
	case schema.TypeScale:
		return aggregateScale(base, q, values)
	case schema.TypeSingleChoice:
		return aggregateSingleChoice(base, q, values)
	case schema.TypeMultipleChoice:
		return aggregateMultipleChoice(base, q, values)
	case schema.TypeRanking:
		return aggregateRanking(base, q, values)
	case schema.TypeFreeText:
		return aggregateFreeText(base, q, values)
	default:
		return UnknownResult{Base: base, ResponseCount: len(values)}
	}
}

func aggregateScale(base Base, q schema.LocalizedQuestion, values []any) ScaleResult {
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		n, ok := asNumber(v)
		if ok {
			numbers = append(numbers, n)
		}
	}

	result := ScaleResult{
		Base:         base,
		Scale:        q.Scale,
		Distribution: map[string]int{},
	}
	if len(numbers) == 0 {
		return result
	}

	lo, hi := stats.Range(numbers)
	for value, count := range stats.Distribution(numbers) {
		result.Distribution[formatNumber(value)] = count
	}

	result.ResponseCount = len(numbers)
	result.Average = stats.Round2(stats.Average(numbers))
	result.Median = stats.Round2(stats.Median(numbers))
	result.Min = lo
	result.Max = hi
	return result
}

func aggregateSingleChoice(base Base, q schema.LocalizedQuestion, values []any) SingleChoiceResult {
	answers := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if ok {
			answers = append(answers, s)
		}
	}

	result := SingleChoiceResult{
		Base:          base,
		Options:       optionsOf(q),
		ResponseCount: len(answers),
		Distribution:  stats.Distribution(answers),
	}

	top, ok := stats.Mode(answers)
	if ok {
		result.TopAnswer = &top
	}
	return result
}

func aggregateMultipleChoice(base Base, q schema.LocalizedQuestion, values []any) MultipleChoiceResult {
	var selections []string
	for _, v := range values {
		items, ok := asSequence(v)
		if !ok {
			continue
		}
		for _, item := range items {
			s, ok := item.(string)
			if ok {
				selections = append(selections, s)
			}
		}
	}

	return MultipleChoiceResult{
		Base:            base,
		Options:         optionsOf(q),
		ResponseCount:   len(values),
		TotalSelections: len(selections),
		Distribution:    stats.Distribution(selections),
	}
}

func aggregateRanking(base Base, q schema.LocalizedQuestion, values []any) RankingResult {
	options := optionsOf(q)

	rankSums := make(map[string]float64, len(options))
	rankCounts := make(map[string]int, len(options))
	for _, option := range options {
		rankSums[option] = 0
		rankCounts[option] = 0
	}

	for _, v := range values {
		items, ok := asSequence(v)
		if !ok {
			continue
		}
		for i, item := range items {
			option, ok := item.(string)
			if !ok {
				continue
			}
			rankSums[option] += float64(i + 1)
			rankCounts[option]++
		}
	}

	averageRanks := make(map[string]float64, len(rankSums))
	for option, sum := range rankSums {
		if rankCounts[option] > 0 {
			averageRanks[option] = stats.Round2(sum / float64(rankCounts[option]))
		}
	}

	return RankingResult{
		Base:          base,
		Options:       options,
		ResponseCount: len(values),
		AverageRanks:  averageRanks,
		RankCounts:    rankCounts,
	}
}

func aggregateFreeText(base Base, q schema.LocalizedQuestion, values []any) FreeTextResult {
	texts := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if ok && strings.TrimSpace(s) != "" {
			texts = append(texts, s)
		}
	}

	return FreeTextResult{
		Base:          base,
		MaxLength:     q.MaxLength,
		ResponseCount: len(texts),
		Responses:     texts,
	}
}

func optionsOf(q schema.LocalizedQuestion) []string {
	if q.Options == nil {
		return []string{}
	}
	return q.Options
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asSequence(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
