package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SURVEY_PORT", "")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, c.Port)
	assert.Equal(t, DefaultSheetID, c.SheetID)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/"+DefaultSheetID+"/export?format=csv", c.SourceLocator())
	assert.Equal(t, []string{"timestamp", "Timestamp", "Email Address", "email", "Email"}, c.Exclusions)
	assert.Equal(t, 10*time.Second, c.CacheTTL)
	assert.Equal(t, 10*time.Second, c.RefreshInterval)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.True(t, c.Insights)
	assert.Equal(t, ":5000", c.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SURVEY_SOURCE", "./responses.csv")
	t.Setenv("SURVEY_CACHE_TTL", "1m")
	t.Setenv("SURVEY_INSIGHTS", "false")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "./responses.csv", c.SourceLocator())
	assert.Equal(t, time.Minute, c.CacheTTL)
	assert.False(t, c.AnalysisOptions().Insights)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SURVEY_PORT", "")

	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
source: sqlite:///data/survey.db?table=responses
exclusions: [Timestamp, Name]
max_charts: 4
refresh_interval: 30s
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, "sqlite:///data/survey.db?table=responses", c.SourceLocator())
	opts := c.AnalysisOptions()
	assert.Equal(t, []string{"Timestamp", "Name"}, opts.Exclusions)
	assert.Equal(t, 4, opts.MaxCharts)
	assert.Equal(t, 30*time.Second, c.RefreshInterval)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := &Config{Port: 5000}
	assert.Error(t, c.Validate())

	c.SheetID = "abc"
	assert.NoError(t, c.Validate())

	c.RefreshInterval = 500 * time.Millisecond
	assert.ErrorContains(t, c.Validate(), "refresh_interval")
	c.RefreshInterval = 0
	assert.NoError(t, c.Validate())
	c.RefreshInterval = time.Second
	assert.NoError(t, c.Validate())

	c.Port = 70000
	assert.Error(t, c.Validate())
}
