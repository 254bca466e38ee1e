package api

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"sync"
	"time"

	"survey-dashboard/internal/models"
)

// summaryValueCounts caps the answers listed per categorical question
const summaryValueCounts = 10

type pageView struct {
	*models.Dashboard
	RefreshSeconds int
	LastUpdated    string
	ChartRows      [][]models.RenderedChart
	Headers        []string
	Records        [][]string
}

func newPageView(d *models.Dashboard, refresh time.Duration) pageView {
	v := pageView{
		Dashboard:      d,
		RefreshSeconds: int(math.Ceil(refresh.Seconds())),
		LastUpdated:    d.GeneratedAt.Format("15:04:05"),
	}
	for i := 0; i < len(d.Charts); i += 2 {
		v.ChartRows = append(v.ChartRows, d.Charts[i:min(i+2, len(d.Charts))])
	}
	if d.Table != nil {
		resp := models.NewTableResponse(d.Table)
		v.Headers, v.Records = resp.Headers, resp.Records
	}
	return v
}

var (
	pageOnce sync.Once
	pageTmpl *template.Template
)

func renderPage(w io.Writer, v pageView) error {
	pageOnce.Do(func() {
		pageTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
			"percent": func(rate float64) string { return fmt.Sprintf("%.0f%%", rate*100) },
			"topCounts": func(cs []models.CategoryCount) []models.CategoryCount {
				return cs[:min(len(cs), summaryValueCounts)]
			},
			"moreCounts": func(cs []models.CategoryCount) int {
				return max(len(cs)-summaryValueCounts, 0)
			},
		}).Parse(pageTemplate))
	})
	return pageTmpl.Execute(w, v)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transit Talks</title>
{{if gt .RefreshSeconds 0}}<meta http-equiv="refresh" content="{{.RefreshSeconds}}">{{end}}
<style>
body { font-family: sans-serif; margin: 0 2rem 2rem; color: #262730; }
.main-header { font-size: 2.5rem; font-weight: bold; color: #1f77b4; text-align: center; margin: 1rem 0; }
.metrics { display: flex; gap: 1rem; }
.metric { flex: 1; background-color: #f0f2f6; padding: 1rem; border-radius: 0.5rem; }
.metric .value { font-size: 1.8rem; font-weight: bold; }
.row { display: flex; gap: 1rem; margin-bottom: 1rem; }
.card { flex: 1; border: 1px solid #e6e6e6; border-radius: 0.5rem; padding: 0.5rem; }
.card img { max-width: 100%; }
.note { color: #8a6d3b; background: #fcf8e3; padding: 0.5rem; }
.error { color: #a94442; background: #f2dede; padding: 1rem; border-radius: 0.5rem; }
.insight { background: #e8f4fd; border-left: 4px solid #1f77b4; padding: 0.5rem 1rem; margin-bottom: 0.5rem; }
table { border-collapse: collapse; margin-bottom: 1rem; }
td, th { border: 1px solid #ddd; padding: 0.25rem 0.5rem; text-align: left; }
</style>
</head>
<body>
<div class="main-header">Transit Talks</div>
<p>Last Updated: {{.LastUpdated}}</p>
{{if .Failed}}
<div class="error">
<h2>Error loading survey data!</h2>
<p>Make sure the Google Sheet is publicly accessible.</p>
<p>{{.Error}}</p>
</div>
{{else}}
{{with .Result.Aggregates}}
<h2>Survey Overview</h2>
<div class="metrics">
<div class="metric"><div>Total Responses</div><div class="value">{{.ResponseCount}}</div></div>
<div class="metric"><div>Latest Response</div><div class="value">{{.LatestTimestamp.Display}}</div></div>
<div class="metric"><div>Avg Rating</div><div class="value">{{printf "%.2f" .AverageRating}}</div></div>
<div class="metric"><div>Total Questions</div><div class="value">{{.QuestionCount}}</div></div>
</div>
{{end}}

<h2>Survey Results Analysis</h2>
{{range .ChartRows}}
<div class="row">
{{range .}}
<div class="card">
<h3>{{.Spec.Heading}}</h3>
{{if .Image}}<img src="{{.Image}}" alt="{{.Spec.Title}}">{{else}}<p class="note">{{.Note}}</p>{{end}}
</div>
{{end}}
</div>
{{end}}

{{if .Result.Insights}}
<h2>Key Insights</h2>
{{range .Result.Insights}}
<div class="insight"><strong>{{.Title}}</strong>: {{.TopAnswer}} ({{.Percentage}}% of responses)</div>
{{end}}
{{end}}

{{if .CrossTabs}}
<h2>Cross-Analysis</h2>
<div class="row">
{{range .CrossTabs}}{{$ct := .}}
<div class="card">
<h3>{{.Spec.Title}}</h3>
{{if .Image}}<img src="{{.Image}}" alt="{{.Spec.Title}}">{{else}}<p class="note">{{.Note}}</p>{{end}}
{{if .Spec.Counts}}
<table>
<tr><th></th>{{range .Spec.ColLabels}}<th>{{.}}</th>{{end}}</tr>
{{range $i, $row := .Spec.RowLabels}}<tr><th>{{$row}}</th>{{range index $ct.Spec.Counts $i}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
{{with .Association}}<p>Association: Cram&eacute;r's V {{printf "%.2f" .CramersV}}, mutual information {{printf "%.2f" .MutualInformation}}</p>{{end}}
</div>
{{end}}
</div>
{{end}}

{{if .Profiles}}
<h2>Statistical Summary</h2>
<table>
<tr><th>Question</th><th>Type</th><th>Answered</th><th>Missing</th><th>Distinct</th><th>Mean</th><th>Std</th><th>Min</th><th>25%</th><th>50%</th><th>75%</th><th>Max</th></tr>
{{range .Profiles}}
<tr>
<td>{{.ColumnName}}</td><td>{{.Role}}</td><td>{{.NonNullRows}}</td><td>{{percent .NullRate}}</td><td>{{.DistinctCount}}</td>
{{with .Numeric}}<td>{{printf "%.2f" .Mean}}</td><td>{{printf "%.2f" .Std}}</td><td>{{.Min}}</td><td>{{.Q1}}</td><td>{{.Median}}</td><td>{{.Q3}}</td><td>{{.Max}}</td>{{else}}<td colspan="7">{{range $i, $c := topCounts .ValueCounts}}{{if $i}}, {{end}}{{$c.Label}}: {{$c.Count}}{{end}}{{with moreCounts .ValueCounts}} and {{.}} more{{end}}</td>{{end}}
</tr>
{{end}}
</table>
{{end}}

<h2>Raw Data</h2>
<p><a href="/download">Download CSV</a> | <a href="/download/excel">Download Excel</a></p>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Records}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`
