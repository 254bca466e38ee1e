package models

import "time"

// ColumnRole is the analysis treatment of a column
type ColumnRole string

const (
	RoleIdentity    ColumnRole = "identity"
	RoleNumeric     ColumnRole = "numeric"
	RoleCategorical ColumnRole = "categorical"
)

// DefaultHistogramBins is the fixed bin count of numeric charts
const DefaultHistogramBins = 10

// Bin is one equal-width histogram bucket. Upper is exclusive except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// NumericPayload describes a histogram-with-mean chart.
// Mean is nil when the column has no non-missing values.
type NumericPayload struct {
	Bins      int      `json:"bins"`
	Mean      *float64 `json:"mean"`
	Count     int      `json:"count"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Histogram []Bin    `json:"histogram"`
}

// CategoryCount is one ranked answer of a categorical distribution
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoricalPayload describes a ranked bar chart
type CategoricalPayload struct {
	Ranked []CategoryCount `json:"ranked"`
}

// ChartSpec describes one question chart independent of rendering technology.
// Exactly one of Numeric or Categorical is set, matching Role.
type ChartSpec struct {
	Column      string              `json:"column"`
	Title       string              `json:"title"`
	Heading     string              `json:"heading"`
	Role        ColumnRole          `json:"role"`
	Numeric     *NumericPayload     `json:"numeric,omitempty"`
	Categorical *CategoricalPayload `json:"categorical,omitempty"`
}

// InsightSpec is the most frequent answer of one question
type InsightSpec struct {
	Title      string `json:"title"`
	TopAnswer  string `json:"top_answer"`
	Percentage int    `json:"percentage"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
}

// CrossTabStatus marks whether a cross-tabulation could be computed
type CrossTabStatus string

const (
	CrossTabOK               CrossTabStatus = "ok"
	CrossTabInsufficientData CrossTabStatus = "insufficient_data"
)

// CrossTabSpec is a co-occurrence count matrix between two categorical questions.
// Counts[i][j] is the number of rows answering RowLabels[i] and ColLabels[j].
type CrossTabSpec struct {
	RowColumn string         `json:"row_column"`
	ColColumn string         `json:"col_column"`
	Title     string         `json:"title"`
	Status    CrossTabStatus `json:"status"`
	Reason    string         `json:"reason,omitempty"`
	RowLabels []string       `json:"row_labels"`
	ColLabels []string       `json:"col_labels"`
	Counts    [][]int        `json:"counts"`
}

// Count returns the number of rows with the given (row, column) answer pair
func (c *CrossTabSpec) Count(row, col string) int {
	for i, r := range c.RowLabels {
		if r != row {
			continue
		}
		for j, cl := range c.ColLabels {
			if cl == col {
				return c.Counts[i][j]
			}
		}
	}
	return 0
}

// Insufficient reports whether the pairing degraded to a placeholder
func (c *CrossTabSpec) Insufficient() bool {
	return c.Status == CrossTabInsufficientData
}

// LatestTimestamp is the newest response time, or the "not available" sentinel
type LatestTimestamp struct {
	Available bool      `json:"available"`
	Time      time.Time `json:"time,omitempty"`
	Column    string    `json:"column,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// NotAvailable is the display value used when no timestamp can be reported
const NotAvailable = "N/A"

// Display formats the timestamp the way the dashboard shows it
func (l LatestTimestamp) Display() string {
	if !l.Available {
		return NotAvailable
	}
	return l.Time.Format("02-Jan 15:04")
}

// Aggregates are the headline numbers of the dashboard
type Aggregates struct {
	ResponseCount   int             `json:"response_count"`
	AverageRating   float64         `json:"average_rating"`
	QuestionCount   int             `json:"question_count"`
	LatestTimestamp LatestTimestamp `json:"latest_timestamp"`
}

// AnalysisResult is the output of one analysis pass
type AnalysisResult struct {
	Charts     []ChartSpec    `json:"charts"`
	Insights   []InsightSpec  `json:"insights"`
	CrossTabs  []CrossTabSpec `json:"cross_tabs"`
	Aggregates Aggregates     `json:"aggregates"`
}
