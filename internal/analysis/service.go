package analysis

import (
	"sort"

	"survey-dashboard/internal/models"
)

// Options controls one analysis pass
type Options struct {
	// Exclusions lists identity column names (exact, case-sensitive match).
	Exclusions []string
	// TimestampColumns are checked in order for the latest response time.
	// A name only counts when it is also excluded.
	TimestampColumns []string
	// MaxCharts caps chart specs to the first N questions; 0 means unlimited.
	MaxCharts int
	// Insights enables top-answer extraction.
	Insights bool
	// MaxInsights caps insights to the first N questions; 0 means unlimited.
	MaxInsights int
}

// DefaultOptions returns the identity fields of a Google Forms export
func DefaultOptions() Options {
	return Options{
		Exclusions:       []string{"timestamp", "Timestamp", "Email Address", "email", "Email"},
		TimestampColumns: []string{"Timestamp", "timestamp"},
		Insights:         true,
	}
}

// QuestionAnalyzer turns a loaded Table into chart, insight and cross-tab specs
type QuestionAnalyzer struct {
	timestamps *TimestampParser
}

func NewQuestionAnalyzer() *QuestionAnalyzer {
	return &QuestionAnalyzer{timestamps: NewTimestampParser()}
}

// Analyze runs one pass over the table. It never fails: columns or pairings that
// cannot be summarized degrade to placeholder values inside the result.
func (a *QuestionAnalyzer) Analyze(table *models.Table, opt Options) *models.AnalysisResult {
	excluded := toSet(opt.Exclusions)
	questions := Questions(table, excluded)

	result := &models.AnalysisResult{
		Charts:    []models.ChartSpec{},
		Insights:  []models.InsightSpec{},
		CrossTabs: []models.CrossTabSpec{},
	}

	for i, q := range questions {
		if opt.MaxCharts > 0 && i >= opt.MaxCharts {
			break
		}
		result.Charts = append(result.Charts, BuildChart(q))
	}

	if opt.Insights {
		result.Insights = BuildInsights(questions, table.Rows, opt.MaxInsights)
	}

	result.CrossTabs = BuildCrossTabs(questions)

	result.Aggregates = models.Aggregates{
		ResponseCount:   table.Rows,
		AverageRating:   AverageRating(questions),
		QuestionCount:   len(questions),
		LatestTimestamp: a.LatestTimestamp(table, excluded, opt.TimestampColumns),
	}
	return result
}

// Question is a non-identity column with the role it is analyzed under
type Question struct {
	*models.Column
	Role models.ColumnRole
}

// Questions classifies every column once and returns the non-identity ones in
// table order.
func Questions(table *models.Table, excluded map[string]bool) []Question {
	var qs []Question
	for _, c := range table.Columns {
		role := Classify(c, excluded)
		if role == models.RoleIdentity {
			continue
		}
		qs = append(qs, Question{Column: c, Role: role})
	}
	return qs
}

// Classify returns the role of a column. Identity is decided purely by name.
func Classify(col *models.Column, excluded map[string]bool) models.ColumnRole {
	if excluded[col.Name] {
		return models.RoleIdentity
	}
	switch col.Kind {
	case models.KindNumeric:
		return models.RoleNumeric
	default:
		return models.RoleCategorical
	}
}

// Distribution counts the non-missing values of a column, ranked by count
// descending with ties kept in first-seen order. Numeric cells are labelled by
// value, so every distinct number is its own category.
func Distribution(col *models.Column) []models.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for row := 0; row < col.Len(); row++ {
		if col.Missing[row] {
			continue
		}
		label := col.Label(row)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	dist := make([]models.CategoryCount, len(order))
	for i, label := range order {
		dist[i] = models.CategoryCount{Label: label, Count: counts[label]}
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
