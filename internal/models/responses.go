package models

import (
	"html/template"
	"time"
)

// NumericSummary mirrors a describe() row for a numeric question
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// ColumnProfile holds quality metrics and summary statistics for a question
type ColumnProfile struct {
	ColumnName    string          `json:"column_name"`
	Role          ColumnRole      `json:"role"`
	TotalRows     int             `json:"total_rows"`
	NonNullRows   int             `json:"non_null_rows"`
	NullRate      float64         `json:"null_rate"`
	DistinctCount int             `json:"distinct_count"`
	Entropy       float64         `json:"entropy"`
	Numeric       *NumericSummary `json:"numeric,omitempty"`
	ValueCounts   []CategoryCount `json:"value_counts,omitempty"`
}

// RenderedChart pairs a ChartSpec with its encoded image.
// Image is empty when rendering degraded; Note then says why.
type RenderedChart struct {
	Spec  ChartSpec    `json:"spec"`
	Image template.URL `json:"-"`
	Note  string       `json:"note,omitempty"`
}

// RenderedCrossTab pairs a CrossTabSpec with its encoded image.
// Association is nil when the pairing had insufficient data.
type RenderedCrossTab struct {
	Spec        CrossTabSpec `json:"spec"`
	Image       template.URL `json:"-"`
	Note        string       `json:"note,omitempty"`
	Association *Association `json:"association,omitempty"`
}

// Dashboard is the outcome of one pipeline pass.
// When Error is set no charts, insights or cross-tabs are present.
type Dashboard struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Source      string             `json:"source"`
	Error       string             `json:"error,omitempty"`
	Table       *Table             `json:"-"`
	Result      *AnalysisResult    `json:"result,omitempty"`
	Charts      []RenderedChart    `json:"-"`
	CrossTabs   []RenderedCrossTab `json:"-"`
	Profiles    []ColumnProfile    `json:"profiles,omitempty"`
}

// Failed reports whether the pass short-circuited on a load failure
func (d *Dashboard) Failed() bool {
	return d.Error != ""
}

// StatusResponse is returned by /api/status
type StatusResponse struct {
	Source    string    `json:"source"`
	Loaded    bool      `json:"loaded"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ErrorResponse is the JSON body of failed API calls
type ErrorResponse struct {
	Error string `json:"error"`
}

// TableResponse is the raw table view returned by /api/table.
// Missing cells are empty strings.
type TableResponse struct {
	Source  string     `json:"source"`
	Headers []string   `json:"headers"`
	Rows    int        `json:"rows"`
	Records [][]string `json:"records"`
}

// NewTableResponse flattens a table into row records
func NewTableResponse(t *Table) TableResponse {
	resp := TableResponse{
		Source:  t.Source,
		Headers: t.Headers(),
		Rows:    t.Rows,
		Records: make([][]string, t.Rows),
	}
	for i := 0; i < t.Rows; i++ {
		resp.Records[i] = t.Record(i)
	}
	return resp
}

// Association is the strength of dependency between the two questions of a cross-tab
type Association struct {
	MutualInformation float64 `json:"mutual_information"`
	CramersV          float64 `json:"cramers_v"`
}
