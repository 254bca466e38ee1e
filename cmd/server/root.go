package main

import (
	"fmt"

	"survey-dashboard/internal/config"
	dashlog "survey-dashboard/internal/log"

	"github.com/spf13/cobra"
)

// Global flag values.
var (
	cfgFile     string
	flagSource  string
	flagLogLvl  string
	flagNoColor bool

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "survey-dashboard",
	Short: "Live dashboard for survey responses",
	Long: `survey-dashboard loads survey responses from a shared Google Sheet, a
local CSV/XLSX export or a SQL table, and serves charts, insights and
cross-tabulations that refresh as new responses arrive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./survey-dashboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "survey source: URL, .csv/.xlsx path or postgres/mysql/sqlite URL")
	rootCmd.PersistentFlags().StringVar(&flagLogLvl, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	registerServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Apply CLI overrides if provided
	f := cmd.Flags()
	if f.Changed("source") {
		c.Source = flagSource
	}
	if f.Changed("log-level") {
		c.LogLevel = flagLogLvl
	}
	if f.Changed("port") {
		c.Port = flagPort
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := dashlog.Setup(c.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	cfg = c
	return nil
}
