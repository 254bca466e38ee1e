package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MaxTitleLength        = 80
	MaxLabelLength        = 50
	MaxCrossTabSideLength = 30

	ellipsis = "..."
)

var (
	// U+FFFD, or its UTF-8 bytes decoded as Mac Roman
	replacementRun = regexp.MustCompile(`(?:\x{FFFD}|ÔøΩ)+`)
	spaceRun       = regexp.MustCompile(` {2,}`)
)

// CleanTitle prepares a column name for display as a chart title
func CleanTitle(s string) string {
	return cleanText(s, MaxTitleLength)
}

// CleanLabel truncates an answer label for chart axes
func CleanLabel(s string) string {
	return Truncate(s, MaxLabelLength)
}

// CrossTabTitle joins both question names, each cleaned to the shorter limit
func CrossTabTitle(rowName, colName string) string {
	return cleanText(rowName, MaxCrossTabSideLength) + " vs " + cleanText(colName, MaxCrossTabSideLength)
}

// Heading turns a column name into a card heading: underscores become spaces
// and every word is capitalised. Replacement runs are swapped out first since
// title casing would change the case of the mojibake.
func Heading(name string) string {
	name = replacementRun.ReplaceAllString(name, "-")
	return CleanTitle(titleCase(strings.ReplaceAll(name, "_", " ")))
}

func cleanText(s string, limit int) string {
	s = replacementRun.ReplaceAllString(s, "-")
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return Truncate(s, limit)
}

// Truncate shortens s to limit characters, the last three being an ellipsis
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-len(ellipsis)]) + ellipsis
}

func titleCase(s string) string {
	out := make([]rune, 0, len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return string(out)
}
