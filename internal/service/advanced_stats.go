package service

import (
	"math"

	"survey-dashboard/internal/models"
)

// AdvancedStatsCalculator measures how strongly two answered questions depend on each other
type AdvancedStatsCalculator struct{}

// NewAdvancedStatsCalculator creates a new calculator
func NewAdvancedStatsCalculator() *AdvancedStatsCalculator {
	return &AdvancedStatsCalculator{}
}

// Association computes both measures for a cross-tab. Nil for insufficient data.
func (asc *AdvancedStatsCalculator) Association(spec models.CrossTabSpec) *models.Association {
	if spec.Insufficient() || len(spec.Counts) == 0 {
		return nil
	}
	return &models.Association{
		MutualInformation: asc.MutualInformation(spec.Counts),
		CramersV:          asc.CramersV(spec.Counts),
	}
}

// MutualInformation of a contingency table, normalized to [0, 1]
// by min(H(row), H(col)). Detects any kind of dependency.
func (asc *AdvancedStatsCalculator) MutualInformation(counts [][]int) float64 {
	rows, cols, n := marginals(counts)
	if n == 0 {
		return 0
	}

	mi := 0.0
	for i, row := range counts {
		for j, c := range row {
			if c == 0 {
				continue
			}
			pxy := float64(c) / n
			px := rows[i] / n
			py := cols[j] / n
			mi += pxy * math.Log2(pxy/(px*py))
		}
	}

	maxMI := math.Min(entropy(rows, n), entropy(cols, n))
	if maxMI == 0 {
		return 0
	}
	return mi / maxMI
}

// CramersV is the chi-squared based association in [0, 1]
func (asc *AdvancedStatsCalculator) CramersV(counts [][]int) float64 {
	rows, cols, n := marginals(counts)
	k := min(len(rows), len(cols))
	if n == 0 || k < 2 {
		return 0
	}

	chi2 := 0.0
	for i, row := range counts {
		for j, c := range row {
			expected := rows[i] * cols[j] / n
			if expected > 0 {
				d := float64(c) - expected
				chi2 += d * d / expected
			}
		}
	}
	return math.Sqrt(chi2 / (n * float64(k-1)))
}

func marginals(counts [][]int) (rows, cols []float64, n float64) {
	rows = make([]float64, len(counts))
	for i, row := range counts {
		if cols == nil {
			cols = make([]float64, len(row))
		}
		for j, c := range row {
			rows[i] += float64(c)
			cols[j] += float64(c)
			n += float64(c)
		}
	}
	return rows, cols, n
}

func entropy(totals []float64, n float64) float64 {
	h := 0.0
	for _, t := range totals {
		if t > 0 {
			p := t / n
			h -= p * math.Log2(p)
		}
	}
	return h
}
