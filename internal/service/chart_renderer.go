package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sort"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// MaxChartBars caps the bars drawn per chart. Answers past the cap are summed
// into one "Other" bar; the spec itself keeps the full ranking.
const MaxChartBars = 20

const otherLabel = "Other"

// ErrInsufficientData is returned for cross-tabs that degraded to a placeholder
var ErrInsufficientData = errors.New("insufficient data")

// ChartImageRenderer encodes chart specs as images
type ChartImageRenderer interface {
	RenderChart(spec models.ChartSpec) (template.URL, error)
	RenderCrossTab(spec models.CrossTabSpec) (template.URL, error)
}

var (
	histogramColor = drawing.ColorFromHex("4682b4")
	meanColor      = drawing.ColorFromHex("d62728")
	otherColor     = drawing.ColorFromHex("aaaaaa")
	// viridis
	barPalette = []drawing.Color{
		drawing.ColorFromHex("440154"),
		drawing.ColorFromHex("482878"),
		drawing.ColorFromHex("3e4989"),
		drawing.ColorFromHex("31688e"),
		drawing.ColorFromHex("26828e"),
		drawing.ColorFromHex("1f9e89"),
		drawing.ColorFromHex("35b779"),
		drawing.ColorFromHex("6ece58"),
		drawing.ColorFromHex("b5de2b"),
		drawing.ColorFromHex("fde725"),
	}
)

// ChartRenderer draws PNG charts with go-chart and returns them as data URLs
type ChartRenderer struct {
	Width  int
	Height int
}

func NewChartRenderer(width, height int) *ChartRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 480
	}
	return &ChartRenderer{Width: width, Height: height}
}

// RenderChart draws a histogram for numeric questions, with the bin holding
// the mean highlighted, or a ranked bar chart for categorical ones.
func (r *ChartRenderer) RenderChart(spec models.ChartSpec) (template.URL, error) {
	var bars []chart.Value
	switch spec.Role {
	case models.RoleNumeric:
		if spec.Numeric == nil {
			return "", fmt.Errorf("chart %q: missing numeric payload", spec.Column)
		}
		meanBin := analysis.MeanBin(spec.Numeric)
		for i, b := range spec.Numeric.Histogram {
			style := chart.Style{FillColor: histogramColor, StrokeColor: histogramColor}
			if i == meanBin {
				style = chart.Style{FillColor: meanColor, StrokeColor: meanColor}
			}
			bars = append(bars, chart.Value{
				Value: float64(b.Count),
				Label: fmt.Sprintf("%.1f", b.Lower),
				Style: style,
			})
		}
	case models.RoleCategorical:
		if spec.Categorical == nil {
			return "", fmt.Errorf("chart %q: missing categorical payload", spec.Column)
		}
		bars = categoricalBars(spec.Categorical.Ranked)
	default:
		return "", fmt.Errorf("chart %q: unsupported role %q", spec.Column, spec.Role)
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("chart %q: no answers", spec.Column)
	}

	maxCount := 0.0
	for _, b := range bars {
		if b.Value > maxCount {
			maxCount = b.Value
		}
	}

	graph := chart.BarChart{
		Title:    spec.Title,
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: 50,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount + 1},
		},
		Bars: bars,
	}
	return encodePNG(graph.Render)
}

// RenderCrossTab draws one stacked bar per row answer, split by column answer
func (r *ChartRenderer) RenderCrossTab(spec models.CrossTabSpec) (template.URL, error) {
	if spec.Insufficient() || len(spec.RowLabels) == 0 {
		return "", ErrInsufficientData
	}

	rows, counts := crossTabRows(spec)
	slot := (r.Width - 80) / len(rows)
	barWidth := max(min(60, slot*2/3), 1)

	var bars []chart.StackedBar
	for i, row := range rows {
		var values []chart.Value
		for j, col := range spec.ColLabels {
			color := barPalette[(j*3)%len(barPalette)]
			values = append(values, chart.Value{
				Value: float64(counts[i][j]),
				Label: analysis.Truncate(col, 15),
				Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
			})
		}
		bars = append(bars, chart.StackedBar{
			Name:   analysis.Truncate(row, 20),
			Width:  barWidth,
			Values: values,
		})
	}

	graph := chart.StackedBarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarSpacing: max(min(100, slot-barWidth), 1),
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Bars: bars,
	}
	return encodePNG(graph.Render)
}

// categoricalBars draws the top MaxChartBars answers and sums the rest into "Other"
func categoricalBars(ranked []models.CategoryCount) []chart.Value {
	n := min(len(ranked), MaxChartBars)
	bars := make([]chart.Value, 0, n+1)
	for i, c := range ranked[:n] {
		color := barPalette[i%len(barPalette)]
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: analysis.Truncate(c.Label, 20),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if rest := ranked[n:]; len(rest) > 0 {
		other := 0
		for _, c := range rest {
			other += c.Count
		}
		bars = append(bars, chart.Value{
			Value: float64(other),
			Label: otherLabel,
			Style: chart.Style{FillColor: otherColor, StrokeColor: otherColor},
		})
	}
	return bars
}

// crossTabRows keeps the MaxChartBars row answers with the most responses, in
// label order, and folds the remaining rows into a trailing "Other" row.
func crossTabRows(spec models.CrossTabSpec) ([]string, [][]int) {
	if len(spec.RowLabels) <= MaxChartBars {
		return spec.RowLabels, spec.Counts
	}

	totals := make([]int, len(spec.RowLabels))
	order := make([]int, len(spec.RowLabels))
	for i, row := range spec.Counts {
		order[i] = i
		for _, c := range row {
			totals[i] += c
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})
	keep := order[:MaxChartBars]
	sort.Ints(keep)

	kept := make(map[int]bool, len(keep))
	labels := make([]string, 0, MaxChartBars+1)
	counts := make([][]int, 0, MaxChartBars+1)
	for _, i := range keep {
		kept[i] = true
		labels = append(labels, spec.RowLabels[i])
		counts = append(counts, spec.Counts[i])
	}

	other := make([]int, len(spec.ColLabels))
	for i, row := range spec.Counts {
		if kept[i] {
			continue
		}
		for j, c := range row {
			other[j] += c
		}
	}
	return append(labels, otherLabel), append(counts, other)
}

func encodePNG(render func(chart.RendererProvider, io.Writer) error) (url template.URL, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			url, err = "", fmt.Errorf("render chart: %v", rec)
		}
	}()

	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
