package service

import (
	"testing"

	"survey-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.290994, s.Std, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
	assert.Equal(t, 4.0, s.Max)

	single := Describe([]float64{7})
	assert.Equal(t, 0.0, single.Std)
	assert.Equal(t, 7.0, single.Median)

	assert.Nil(t, Describe(nil))
}

func TestDataQualityProfiler_ProfileQuestions(t *testing.T) {
	table, err := BuildTable("test", []string{"Timestamp", "Rating", "Line"}, [][]string{
		{"1/5/2024 9:00:00", "4", "Red"},
		{"1/6/2024 9:00:00", "", "Red"},
		{"1/7/2024 9:00:00", "2", "Blue"},
		{"1/8/2024 9:00:00", "3", "Green"},
	})
	require.NoError(t, err)

	profiles := NewDataQualityProfiler().ProfileQuestions(table, []string{"Timestamp"})
	require.Len(t, profiles, 2)

	rating := profiles[0]
	assert.Equal(t, "Rating", rating.ColumnName)
	assert.Equal(t, models.RoleNumeric, rating.Role)
	assert.Equal(t, 3, rating.NonNullRows)
	assert.InDelta(t, 0.25, rating.NullRate, 1e-9)
	require.NotNil(t, rating.Numeric)
	assert.InDelta(t, 3.0, rating.Numeric.Mean, 1e-9)
	assert.Empty(t, rating.ValueCounts)

	line := profiles[1]
	assert.Equal(t, models.RoleCategorical, line.Role)
	assert.Equal(t, 3, line.DistinctCount)
	assert.Nil(t, line.Numeric)
	assert.Equal(t, models.CategoryCount{Label: "Red", Count: 2}, line.ValueCounts[0])
	assert.InDelta(t, 1.5, line.Entropy, 1e-9)
}
