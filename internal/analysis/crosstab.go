package analysis

import (
	"sort"

	"survey-dashboard/internal/models"
)

// MaxCrossTabs is the number of pairings built from the first three categorical questions
const MaxCrossTabs = 2

// BuildCrossTabs pairs the first three categorical questions as (0,1) and (1,2).
// Fewer than two categorical questions yield no cross-tabs.
func BuildCrossTabs(questions []Question) []models.CrossTabSpec {
	var cats []*models.Column
	for _, q := range questions {
		if q.Role == models.RoleCategorical {
			cats = append(cats, q.Column)
		}
		if len(cats) == MaxCrossTabs+1 {
			break
		}
	}

	tabs := []models.CrossTabSpec{}
	for i := 0; i+1 < len(cats); i++ {
		tabs = append(tabs, CrossTab(cats[i], cats[i+1]))
	}
	return tabs
}

// CrossTab counts answer co-occurrence of two columns over rows answering both.
// Labels are sorted ascending. An empty matrix degrades to insufficient data.
func CrossTab(rowCol, colCol *models.Column) models.CrossTabSpec {
	spec := models.CrossTabSpec{
		RowColumn: rowCol.Name,
		ColColumn: colCol.Name,
		Title:     CrossTabTitle(rowCol.Name, colCol.Name),
		Status:    models.CrossTabOK,
	}

	type pair struct{ row, col string }
	counts := make(map[pair]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)

	n := min(rowCol.Len(), colCol.Len())
	for i := 0; i < n; i++ {
		if rowCol.Missing[i] || colCol.Missing[i] {
			continue
		}
		r, c := rowCol.Label(i), colCol.Label(i)
		counts[pair{r, c}]++
		rowSet[r] = true
		colSet[c] = true
	}

	if len(rowSet) == 0 || len(colSet) == 0 {
		spec.Status = models.CrossTabInsufficientData
		spec.Reason = "no response answers both questions"
		return spec
	}

	spec.RowLabels = sortedKeys(rowSet)
	spec.ColLabels = sortedKeys(colSet)
	spec.Counts = make([][]int, len(spec.RowLabels))
	for i, r := range spec.RowLabels {
		spec.Counts[i] = make([]int, len(spec.ColLabels))
		for j, c := range spec.ColLabels {
			spec.Counts[i][j] = counts[pair{r, c}]
		}
	}
	return spec
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
