package service

import (
	"testing"

	"survey-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvancedStats_PerfectAssociation(t *testing.T) {
	asc := NewAdvancedStatsCalculator()
	counts := [][]int{{5, 0}, {0, 5}}

	assert.InDelta(t, 1.0, asc.MutualInformation(counts), 1e-9)
	assert.InDelta(t, 1.0, asc.CramersV(counts), 1e-9)
}

func TestAdvancedStats_Independent(t *testing.T) {
	asc := NewAdvancedStatsCalculator()
	counts := [][]int{{2, 2}, {3, 3}}

	assert.InDelta(t, 0.0, asc.MutualInformation(counts), 1e-9)
	assert.InDelta(t, 0.0, asc.CramersV(counts), 1e-9)
}

func TestAdvancedStats_SingleCategory(t *testing.T) {
	asc := NewAdvancedStatsCalculator()
	counts := [][]int{{3, 1}}

	assert.Equal(t, 0.0, asc.MutualInformation(counts))
	assert.Equal(t, 0.0, asc.CramersV(counts))
}

func TestAdvancedStats_Association(t *testing.T) {
	asc := NewAdvancedStatsCalculator()
	assert.Nil(t, asc.Association(models.CrossTabSpec{Status: models.CrossTabInsufficientData}))

	a := asc.Association(models.CrossTabSpec{
		Status:    models.CrossTabOK,
		RowLabels: []string{"Blue", "Red"},
		ColLabels: []string{"Bus", "Train"},
		Counts:    [][]int{{0, 1}, {1, 1}},
	})
	require.NotNil(t, a)
	assert.Greater(t, a.CramersV, 0.0)
	assert.LessOrEqual(t, a.CramersV, 1.0)
	assert.GreaterOrEqual(t, a.MutualInformation, 0.0)
}
