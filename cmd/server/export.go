package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	expFormat string
	expOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the loaded responses to a CSV or XLSX file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		table, err := a.loader.Load(cmd.Context())
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		format := strings.ToLower(expFormat)
		switch format {
		case "csv":
			err = a.export.WriteCSV(&buf, table)
		case "xlsx", "excel":
			format = "xlsx"
			err = a.export.WriteXLSX(&buf, table)
		default:
			return fmt.Errorf("unsupported --format: %s (use csv|xlsx)", expFormat)
		}
		if err != nil {
			return err
		}

		path := expOutput
		if path == "" {
			path = a.export.Filename(format)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d responses to %s\n", table.Rows, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&expFormat, "format", "csv", "export format: csv|xlsx")
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output path (default survey_export_<timestamp>.<ext>)")
}
