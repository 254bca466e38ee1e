package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/models"

	"github.com/google/uuid"
)

// DashboardService runs the load, analyze and render pipeline for one request
type DashboardService struct {
	loader   Loader
	analyzer *analysis.QuestionAnalyzer
	profiler *DataQualityProfiler
	stats    *AdvancedStatsCalculator
	renderer ChartImageRenderer
	opts     analysis.Options
	now      func() time.Time
}

func NewDashboardService(loader Loader, renderer ChartImageRenderer, opts analysis.Options) *DashboardService {
	return &DashboardService{
		loader:   loader,
		analyzer: analysis.NewQuestionAnalyzer(),
		profiler: NewDataQualityProfiler(),
		stats:    NewAdvancedStatsCalculator(),
		renderer: renderer,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *DashboardService) Options() analysis.Options {
	return s.opts
}

// Analyze loads the table and returns its analysis without rendering images
func (s *DashboardService) Analyze(ctx context.Context) (*models.Table, *models.AnalysisResult, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return table, s.analyzer.Analyze(table, s.opts), nil
}

// Profiles loads the table and returns the statistical summary of its questions
func (s *DashboardService) Profiles(ctx context.Context) ([]models.ColumnProfile, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.profiler.ProfileQuestions(table, s.opts.Exclusions), nil
}

// Build runs a full pass. A load failure is reported in Dashboard.Error and
// never returned; render failures degrade to a note on the affected chart.
func (s *DashboardService) Build(ctx context.Context) *models.Dashboard {
	d := &models.Dashboard{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now(),
		Source:      s.loader.Locator(),
	}
	log := slog.With("run_id", d.RunID)

	table, result, err := s.Analyze(ctx)
	if err != nil {
		var lf *LoadFailure
		if errors.As(err, &lf) {
			d.Error = lf.Error()
		} else {
			d.Error = err.Error()
		}
		log.Warn("dashboard load failed", "source", d.Source, "error", err)
		return d
	}

	d.Table = table
	d.Result = result
	d.Profiles = s.profiler.ProfileQuestions(table, s.opts.Exclusions)

	d.Charts = make([]models.RenderedChart, 0, len(result.Charts))
	for _, spec := range result.Charts {
		rc := models.RenderedChart{Spec: spec}
		img, err := s.renderer.RenderChart(spec)
		if err != nil {
			rc.Note = "Chart unavailable: " + err.Error()
			log.Warn("chart render failed", "column", spec.Column, "error", err)
		} else {
			rc.Image = img
		}
		d.Charts = append(d.Charts, rc)
	}

	d.CrossTabs = make([]models.RenderedCrossTab, 0, len(result.CrossTabs))
	for _, spec := range result.CrossTabs {
		rc := models.RenderedCrossTab{Spec: spec, Association: s.stats.Association(spec)}
		img, err := s.renderer.RenderCrossTab(spec)
		switch {
		case errors.Is(err, ErrInsufficientData):
			rc.Note = "Insufficient data for cross-analysis"
		case err != nil:
			rc.Note = "Chart unavailable: " + err.Error()
			log.Warn("cross-tab render failed", "title", spec.Title, "error", err)
		default:
			rc.Image = img
		}
		d.CrossTabs = append(d.CrossTabs, rc)
	}

	log.Info("dashboard built",
		"rows", table.Rows,
		"questions", result.Aggregates.QuestionCount,
		"charts", len(d.Charts),
		"cross_tabs", len(d.CrossTabs),
		"duration", time.Since(d.GeneratedAt))
	return d
}
