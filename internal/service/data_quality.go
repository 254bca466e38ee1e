package service

import (
	"math"
	"sort"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/models"
)

// DataQualityProfiler computes the statistical summary of survey questions
type DataQualityProfiler struct{}

// NewDataQualityProfiler creates a new profiler
func NewDataQualityProfiler() *DataQualityProfiler {
	return &DataQualityProfiler{}
}

// ProfileColumn analyzes quality metrics for a single column
func (dqp *DataQualityProfiler) ProfileColumn(col *models.Column) models.ColumnProfile {
	profile := models.ColumnProfile{
		ColumnName:  col.Name,
		Role:        analysis.Classify(col, nil),
		TotalRows:   col.Len(),
		NonNullRows: col.PresentCount(),
	}

	dist := analysis.Distribution(col)
	profile.DistinctCount = len(dist)
	profile.Entropy = dqp.calculateEntropy(dist, profile.NonNullRows)

	if profile.TotalRows > 0 {
		profile.NullRate = float64(profile.TotalRows-profile.NonNullRows) / float64(profile.TotalRows)
	}

	if profile.Role == models.RoleNumeric {
		profile.Numeric = Describe(col.NumericValues())
	} else {
		profile.ValueCounts = dist
	}
	return profile
}

// ProfileQuestions profiles every non-excluded column in table order
func (dqp *DataQualityProfiler) ProfileQuestions(table *models.Table, exclusions []string) []models.ColumnProfile {
	excluded := make(map[string]bool, len(exclusions))
	for _, e := range exclusions {
		excluded[e] = true
	}
	questions := analysis.Questions(table, excluded)

	profiles := make([]models.ColumnProfile, len(questions))
	for i, q := range questions {
		profiles[i] = dqp.ProfileColumn(q.Column)
	}
	return profiles
}

// calculateEntropy computes Shannon entropy of the answer distribution
func (dqp *DataQualityProfiler) calculateEntropy(dist []models.CategoryCount, total int) float64 {
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range dist {
		if c.Count > 0 {
			p := float64(c.Count) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// Describe returns count, mean, sample std, min, quartiles and max.
// Quartiles interpolate linearly; std is 0 below two values. Nil for no values.
func Describe(vals []float64) *models.NumericSummary {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	s := &models.NumericSummary{
		Count:  len(sorted),
		Mean:   analysis.Mean(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}
	if len(sorted) > 1 {
		ss := 0.0
		for _, v := range sorted {
			d := v - s.Mean
			ss += d * d
		}
		s.Std = math.Sqrt(ss / float64(len(sorted)-1))
	}
	return s
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
