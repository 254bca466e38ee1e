package analysis

import (
	"math"

	"survey-dashboard/internal/models"
)

// BuildChart builds the chart spec of a question from its role
func BuildChart(q Question) models.ChartSpec {
	spec := models.ChartSpec{
		Column:  q.Name,
		Role:    q.Role,
		Title:   CleanTitle(q.Name),
		Heading: Heading(q.Name),
	}

	switch q.Role {
	case models.RoleNumeric:
		spec.Numeric = NumericChart(q.NumericValues())
	default:
		spec.Role = models.RoleCategorical
		spec.Categorical = CategoricalChart(q.Column)
	}
	return spec
}

// NumericChart computes a fixed-bin histogram and the mean of the present values.
// With no values the histogram is empty over [0, 1] and the mean is nil.
func NumericChart(vals []float64) *models.NumericPayload {
	p := &models.NumericPayload{
		Bins:  models.DefaultHistogramBins,
		Count: len(vals),
	}
	if len(vals) == 0 {
		p.Histogram = histogram(nil, 0, 1, p.Bins)
		return p
	}

	mean, lo, hi := Mean(vals), vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	p.Mean = &mean
	p.Min, p.Max = lo, hi

	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	p.Histogram = histogram(vals, lo, hi, p.Bins)
	return p
}

// CategoricalChart ranks the answers of a column and truncates their labels
func CategoricalChart(col *models.Column) *models.CategoricalPayload {
	dist := Distribution(col)
	for i := range dist {
		dist[i].Label = CleanLabel(dist[i].Label)
	}
	return &models.CategoricalPayload{Ranked: dist}
}

// Mean returns the arithmetic mean; callers must pass at least one value.
// It is kept as a running mean so large finite inputs do not overflow.
func Mean(vals []float64) float64 {
	m := 0.0
	for i, v := range vals {
		m += (v - m) / float64(i+1)
	}
	return m
}

// MeanBin returns the index of the histogram bin holding the mean, or -1
func MeanBin(p *models.NumericPayload) int {
	if p.Mean == nil {
		return -1
	}
	for i, b := range p.Histogram {
		last := i == len(p.Histogram)-1
		if *p.Mean >= b.Lower && (*p.Mean < b.Upper || (last && *p.Mean <= b.Upper)) {
			return i
		}
	}
	return -1
}

func histogram(vals []float64, lo, hi float64, n int) []models.Bin {
	width := (hi - lo) / float64(n)
	bins := make([]models.Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi

	for _, v := range vals {
		idx := 0
		// width underflows to 0 when lo and hi are too large to be split apart
		if width > 0 {
			idx = int((v - lo) / width)
		}
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}
