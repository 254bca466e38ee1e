package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"survey-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyCSV = "Timestamp,Overall Rating,Favorite Line,Commute Mode\n" +
	"1/5/2024 9:00:00,4,Red,Bus\n" +
	"1/6/2024 10:30:00,5,Blue,Train\n" +
	"1/7/2024 11:45:00,3,Red,Train\n"

func writeSurvey(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "survey responses")
	for _, sub := range []string{"serve", "analyze", "export"} {
		assert.Contains(t, out, sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "source", "log-level", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := execute(t, "analyze", "--source", writeSurvey(t), "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Aggregates.ResponseCount)
	assert.Equal(t, 3, result.Aggregates.QuestionCount)
	assert.InDelta(t, 4.0, result.Aggregates.AverageRating, 1e-9)
	assert.Len(t, result.CrossTabs, 1)
}

func TestAnalyzeText(t *testing.T) {
	out, err := execute(t, "analyze", "--source", writeSurvey(t), "--format", "text", "--no-color", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Responses: 3")
	assert.Contains(t, out, "Latest Response: 07-Jan 11:45")
	assert.Contains(t, out, "Favorite Line: Red (66%)")
}

func TestAnalyzeYAML(t *testing.T) {
	out, err := execute(t, "analyze", "--source", writeSurvey(t), "--format", "yaml", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "responsecount: 3")
}

func TestAnalyze_BadFormat(t *testing.T) {
	_, err := execute(t, "analyze", "--source", writeSurvey(t), "--format", "xml", "--log-level", "error")
	assert.ErrorContains(t, err, "unsupported --format")
}

func TestAnalyze_LoadFailure(t *testing.T) {
	_, err := execute(t, "analyze", "--source", filepath.Join(t.TempDir(), "missing.csv"), "--format", "json", "--log-level", "error")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	msg, err := execute(t, "export", "--source", writeSurvey(t), "--format", "csv", "-o", out, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, msg, "Wrote 3 responses")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, surveyCSV, string(b))
}

func TestRouter(t *testing.T) {
	_, err := execute(t, "analyze", "--source", writeSurvey(t), "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	a, err := newApp(cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(newRouter(cfg, a))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var status models.StatusResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&status))
	assert.True(t, strings.HasSuffix(status.Source, "survey.csv"))
}

func TestIsFileSource(t *testing.T) {
	_, ok := isFileSource("./survey.csv")
	assert.True(t, ok)
	_, ok = isFileSource("https://example.com/export.csv")
	assert.False(t, ok)
}
