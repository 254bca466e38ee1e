package analysis

import (
	"survey-dashboard/internal/models"
)

// BuildInsights extracts the top answer of every question that has at least one
// answer, keeping column order. Percentages are truncated, not rounded.
func BuildInsights(questions []Question, totalRows, limit int) []models.InsightSpec {
	insights := []models.InsightSpec{}
	for _, q := range questions {
		if limit > 0 && len(insights) >= limit {
			break
		}
		if q.PresentCount() == 0 {
			continue
		}
		top := Distribution(q.Column)[0]
		insights = append(insights, models.InsightSpec{
			Title:      CleanTitle(q.Name),
			TopAnswer:  top.Label,
			Percentage: top.Count * 100 / totalRows,
			Count:      top.Count,
			Total:      totalRows,
		})
	}
	return insights
}

// AverageRating is the mean of the per-question means of numeric questions.
// Questions without any value are left out; with none left the result is 0.
func AverageRating(questions []Question) float64 {
	var means []float64
	for _, q := range questions {
		if q.Role != models.RoleNumeric {
			continue
		}
		vals := q.NumericValues()
		if len(vals) == 0 {
			continue
		}
		means = append(means, Mean(vals))
	}
	if len(means) == 0 {
		return 0
	}
	return Mean(means)
}
