package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"survey-dashboard/internal/models"
)

// Cell texts read as absent, matching the usual spreadsheet/pandas NA markers
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
}

// IsMissing reports whether a raw cell counts as an absent answer
func IsMissing(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}

// ParseNumber parses an integer or floating-point literal. Non-finite values are rejected.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ReadCSV parses CSV text with a header row into a Table
func ReadCSV(source string, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, record)
	}
	return BuildTable(source, header, records)
}

// BuildTable turns raw rows into typed columns. Short rows are padded with
// missing cells; a row with non-empty cells beyond the header is an error.
// A column is numeric when every present cell parses as a number.
func BuildTable(source string, header []string, records [][]string) (*models.Table, error) {
	names := uniqueHeaders(header)
	table := &models.Table{Source: source, Rows: len(records)}

	for i, name := range names {
		col := &models.Column{
			Name:    name,
			Kind:    models.KindNumeric,
			Texts:   make([]string, len(records)),
			Numbers: make([]float64, len(records)),
			Missing: make([]bool, len(records)),
		}
		table.Columns = append(table.Columns, col)

		for row, rec := range records {
			if i >= len(rec) || IsMissing(rec[i]) {
				col.Missing[row] = true
				continue
			}
			col.Texts[row] = rec[i]
			if col.Kind != models.KindNumeric {
				continue
			}
			if v, ok := ParseNumber(rec[i]); ok {
				col.Numbers[row] = v
			} else {
				col.Kind = models.KindCategorical
			}
		}
		if col.Kind == models.KindCategorical {
			col.Numbers = nil
		}
	}

	for row, rec := range records {
		for j := len(names); j < len(rec); j++ {
			if strings.TrimSpace(rec[j]) != "" {
				return nil, fmt.Errorf("row %d has %d fields, header has %d", row+2, len(rec), len(names))
			}
		}
	}
	return table, nil
}

// uniqueHeaders names blank headers "Unnamed: i" and suffixes repeats with ".1", ".2", ...
func uniqueHeaders(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool)
	suffix := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			suffix[h]++
			name = fmt.Sprintf("%s.%d", h, suffix[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}
