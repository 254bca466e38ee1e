package analysis

import (
	"fmt"
	"strings"
	"time"

	"survey-dashboard/internal/models"
)

// TimestampParser parses the response-time formats survey exports use
type TimestampParser struct {
	formats []string
}

// NewTimestampParser creates a parser with the common export layouts
func NewTimestampParser() *TimestampParser {
	return &TimestampParser{
		formats: []string{
			"1/2/2006 15:04:05",   // Google Forms: 3/14/2024 9:05:31
			"1/2/2006 15:04",      // Google Forms without seconds
			"2006-01-02 15:04:05", // SQL datetime
			"2006-01-02T15:04:05", // ISO without zone
			time.RFC3339,          // With zone
			time.RFC3339Nano,
			"2006-01-02",      // ISO: 2024-01-15
			"01/02/2006",      // US: 01/15/2024
			"2006/01/02",      // Alt ISO
			"02-Jan-2006",     // Text: 15-Jan-2024
			"January 2, 2006", // Full text
		},
	}
}

// Parse tries every known layout in order
func (p *TimestampParser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range p.formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// Latest parses every present cell and returns the maximum. A single
// unparseable cell makes the whole column unavailable.
func (p *TimestampParser) Latest(col *models.Column) models.LatestTimestamp {
	out := models.LatestTimestamp{Column: col.Name}
	for row := 0; row < col.Len(); row++ {
		if col.Missing[row] {
			continue
		}
		t, err := p.Parse(col.Label(row))
		if err != nil {
			return models.LatestTimestamp{Column: col.Name, Reason: fmt.Sprintf("row %d: %v", row+1, err)}
		}
		if !out.Available || t.After(out.Time) {
			out.Time = t
			out.Available = true
		}
	}
	if !out.Available {
		out.Reason = "no timestamps recorded"
	}
	return out
}

// LatestTimestamp reports the newest response time from the first excluded
// column whose name is listed in names.
func (a *QuestionAnalyzer) LatestTimestamp(table *models.Table, excluded map[string]bool, names []string) models.LatestTimestamp {
	for _, name := range names {
		if !excluded[name] {
			continue
		}
		if col := table.Column(name); col != nil {
			return a.timestamps.Latest(col)
		}
	}
	return models.LatestTimestamp{Reason: "no timestamp column"}
}
