package service

import (
	"context"
	"errors"
	"html/template"
	"testing"
	"time"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	table *models.Table
	err   error
}

func (l *stubLoader) Load(context.Context) (*models.Table, error) {
	return l.table, l.err
}

func (l *stubLoader) Locator() string {
	return "stub://survey"
}

type stubRenderer struct {
	failChart string
}

func (r *stubRenderer) RenderChart(spec models.ChartSpec) (template.URL, error) {
	if spec.Column == r.failChart {
		return "", errors.New("font missing")
	}
	return template.URL("data:image/png;base64,AA=="), nil
}

func (r *stubRenderer) RenderCrossTab(spec models.CrossTabSpec) (template.URL, error) {
	if spec.Insufficient() {
		return "", ErrInsufficientData
	}
	return template.URL("data:image/png;base64,AA=="), nil
}

func dashboardTable(t *testing.T) *models.Table {
	t.Helper()
	table, err := BuildTable("stub://survey",
		[]string{"Timestamp", "Email Address", "Overall Rating", "Favorite Line", "Commute Mode", "Comments"},
		[][]string{
			{"1/5/2024 9:00:00", "a@x.org", "4", "Red", "Bus", "ok"},
			{"1/6/2024 10:30:00", "b@x.org", "5", "Blue", "Train", ""},
			{"1/7/2024 11:45:00", "c@x.org", "3", "Red", "Train", "late"},
		})
	require.NoError(t, err)
	return table
}

func TestDashboardService_Build(t *testing.T) {
	svc := NewDashboardService(&stubLoader{table: dashboardTable(t)}, &stubRenderer{failChart: "Comments"}, analysis.DefaultOptions())
	svc.now = func() time.Time { return time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) }

	d := svc.Build(context.Background())
	require.False(t, d.Failed(), d.Error)

	_, err := uuid.Parse(d.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "stub://survey", d.Source)

	agg := d.Result.Aggregates
	assert.Equal(t, 3, agg.ResponseCount)
	assert.Equal(t, 4, agg.QuestionCount)
	assert.InDelta(t, 4.0, agg.AverageRating, 1e-9)
	assert.Equal(t, "07-Jan 11:45", agg.LatestTimestamp.Display())

	require.Len(t, d.Charts, 4)
	assert.NotEmpty(t, d.Charts[0].Image)
	assert.Empty(t, d.Charts[3].Image)
	assert.Contains(t, d.Charts[3].Note, "font missing")

	require.Len(t, d.CrossTabs, 2)
	for _, ct := range d.CrossTabs {
		assert.NotEmpty(t, ct.Image)
		assert.NotNil(t, ct.Association)
	}
	assert.Len(t, d.Profiles, 4)
}

func TestDashboardService_LoadFailure(t *testing.T) {
	fail := &LoadFailure{Locator: "stub://survey", Cause: errors.New("403 Forbidden")}
	svc := NewDashboardService(&stubLoader{err: fail}, &stubRenderer{}, analysis.DefaultOptions())

	d := svc.Build(context.Background())
	assert.True(t, d.Failed())
	assert.Contains(t, d.Error, "403 Forbidden")
	assert.Nil(t, d.Result)
	assert.Empty(t, d.Charts)
	assert.Empty(t, d.CrossTabs)
}

func TestDashboardService_InsufficientCrossTabGetsNote(t *testing.T) {
	table, err := BuildTable("stub://survey", []string{"A", "B"}, [][]string{
		{"x", ""},
		{"", "y"},
	})
	require.NoError(t, err)

	svc := NewDashboardService(&stubLoader{table: table}, &stubRenderer{}, analysis.Options{})
	d := svc.Build(context.Background())

	require.Len(t, d.CrossTabs, 1)
	assert.Empty(t, d.CrossTabs[0].Image)
	assert.Equal(t, "Insufficient data for cross-analysis", d.CrossTabs[0].Note)
	assert.Nil(t, d.CrossTabs[0].Association)
}
