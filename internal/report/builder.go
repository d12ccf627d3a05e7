package report

import (
	"NYCU-SDC/survey-analytics-backend/internal/analytics/aggregate"
	"NYCU-SDC/survey-analytics-backend/internal/analytics/stats"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/response"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
)

// Build turns an aggregation over every question of s into the normalized
// report document consumed by the composers.
func Build(s schema.Schema, responses []response.Response, result aggregate.Result) shared.ComputedReportData {
	data := shared.ComputedReportData{
		ResponseCount: len(responses),
		Dimensions:    map[string]shared.Dimension{},
		Metrics:       map[string]any{},
	}

	for id, question := range result.Questions {
		switch r := question.(type) {
		case aggregate.ScaleResult:
			if r.ResponseCount == 0 {
				continue
			}
			dim := shared.Dimension{Value: r.Average, Responses: r.ResponseCount}
			if r.Scale != nil {
				dim.Scale = &shared.Scale{Min: r.Scale.Min, Max: r.Scale.Max}
			}
			data.Dimensions[id] = dim
		case aggregate.SingleChoiceResult:
			if r.TopAnswer != nil {
				data.Metrics[id+".top_answer"] = *r.TopAnswer
			}
		case aggregate.MultipleChoiceResult:
			data.Metrics[id+".total_selections"] = r.TotalSelections
		case aggregate.RankingResult:
			top, ok := r.TopRanked()
			if ok {
				data.Metrics[id+".top_ranked"] = top
			}
		case aggregate.FreeTextResult:
			data.Metrics[id+".text_responses"] = r.ResponseCount
		}
	}

	data.OverallScore = overallScore(data.Dimensions)
	data.CompletionRate = completionRate(s, responses)
	return data
}

// overallScore averages every dimension placed on its own scale as 0..100.
func overallScore(dimensions map[string]shared.Dimension) *float64 {
	if len(dimensions) == 0 {
		return nil
	}

	percents := make([]float64, 0, len(dimensions))
	for _, dim := range dimensions {
		percents = append(percents, dim.Percent())
	}

	score := stats.Round2(stats.Average(percents))
	return &score
}

func completionRate(s schema.Schema, responses []response.Response) *float64 {
	var required []string
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			if q.IsRequired() {
				required = append(required, q.ID)
			}
		}
	}
	if len(required) == 0 || len(responses) == 0 {
		return nil
	}

	rates := make([]float64, 0, len(responses))
	for _, r := range responses {
		answered := 0
		for _, id := range required {
			if r.Answers.Answered(id) {
				answered++
			}
		}
		rates = append(rates, float64(answered)/float64(len(required)))
	}

	rate := stats.Average(rates)
	return &rate
}
