package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	s := NewExportService()
	s.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return s
}

func TestExportService_Filename(t *testing.T) {
	s := newTestExportService(t)
	assert.Equal(t, "survey_export_20240309_140507.csv", s.Filename("csv"))
	assert.Equal(t, "survey_export_20240309_140507.xlsx", s.Filename("xlsx"))
}

func TestExportService_WriteCSV(t *testing.T) {
	table, err := BuildTable("test", []string{"Rating", "Comment"}, [][]string{
		{"4", "Great, fast"},
		{"NA", ""},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, newTestExportService(t).WriteCSV(&buf, table))
	assert.Equal(t, "Rating,Comment\n4,\"Great, fast\"\n,\n", buf.String())
}

func TestExportService_WriteXLSX(t *testing.T) {
	table, err := BuildTable("test", []string{"Rating", "Line"}, [][]string{
		{"4", "Red"},
		{"", "Blue"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, newTestExportService(t).WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExportSheetName}, f.GetSheetList())
	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rating", "Line"}, rows[0])
	assert.Equal(t, []string{"4", "Red"}, rows[1])
	assert.Equal(t, "Blue", rows[2][1])
}
