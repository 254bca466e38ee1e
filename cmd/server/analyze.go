package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"survey-dashboard/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var anaFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Load the source once and print the analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		_, result, err := a.dashboard.Analyze(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		switch strings.ToLower(anaFormat) {
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		case "yaml":
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(result); err != nil {
				return err
			}
			return enc.Close()
		case "text", "":
			return printAnalysis(w, result)
		default:
			return fmt.Errorf("unsupported --format: %s (use text|json|yaml)", anaFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "text", "output format: text|json|yaml")
}

func printAnalysis(w io.Writer, r *models.AnalysisResult) error {
	if flagNoColor {
		color.NoColor = true
	}
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	agg := r.Aggregates
	_, _ = bold.Fprintln(w, "Survey Overview")
	_, _ = fmt.Fprintf(w, "  Total Responses: %d\n", agg.ResponseCount)
	_, _ = fmt.Fprintf(w, "  Latest Response: %s\n", agg.LatestTimestamp.Display())
	_, _ = fmt.Fprintf(w, "  Avg Rating:      %.2f\n", agg.AverageRating)
	_, _ = fmt.Fprintf(w, "  Total Questions: %d\n", agg.QuestionCount)

	_, _ = bold.Fprintln(w, "\nQuestions")
	for _, c := range r.Charts {
		_, _ = cyan.Fprintf(w, "  %s", c.Title)
		switch {
		case c.Numeric != nil && c.Numeric.Mean != nil:
			_, _ = fmt.Fprintf(w, "  (n=%d, mean %.2f)\n", c.Numeric.Count, *c.Numeric.Mean)
		case c.Numeric != nil:
			_, _ = fmt.Fprintln(w, "  (no answers)")
		default:
			_, _ = fmt.Fprintln(w)
			for _, cc := range c.Categorical.Ranked {
				_, _ = fmt.Fprintf(w, "      %-40s %d\n", cc.Label, cc.Count)
			}
		}
	}

	if len(r.Insights) > 0 {
		_, _ = bold.Fprintln(w, "\nKey Insights")
		for _, in := range r.Insights {
			_, _ = fmt.Fprintf(w, "  %s: %s (%d%%)\n", in.Title, in.TopAnswer, in.Percentage)
		}
	}

	if len(r.CrossTabs) > 0 {
		_, _ = bold.Fprintln(w, "\nCross-Analysis")
		for _, ct := range r.CrossTabs {
			if ct.Insufficient() {
				_, _ = yellow.Fprintf(w, "  %s: insufficient data\n", ct.Title)
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s: %d x %d answers\n", ct.Title, len(ct.RowLabels), len(ct.ColLabels))
		}
	}
	return nil
}
