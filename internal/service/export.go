package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"survey-dashboard/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportSheetName is the worksheet holding exported responses
const ExportSheetName = "Survey Data"

// ExportService writes the loaded table back out as CSV or XLSX
type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// Filename returns survey_export_YYYYMMDD_HHMMSS.<ext>
func (s *ExportService) Filename(ext string) string {
	return fmt.Sprintf("survey_export_%s.%s", s.now().Format("20060102_150405"), ext)
}

// WriteCSV writes the header and every row; missing cells are written empty
func (s *ExportService) WriteCSV(w io.Writer, table *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < table.Rows; i++ {
		if err := cw.Write(table.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to a single worksheet. Numeric cells stay numbers.
func (s *ExportService) WriteXLSX(w io.Writer, table *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, name := range table.Headers() {
		header[i] = name
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r := 0; r < table.Rows; r++ {
		row := make([]interface{}, len(table.Columns))
		for c, col := range table.Columns {
			switch {
			case col.Missing[r]:
				row[c] = ""
			case col.IsNumeric():
				row[c] = col.Numbers[r]
			default:
				row[c] = col.Texts[r]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
