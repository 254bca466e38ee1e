package config

import (
	"errors"
	"fmt"
	"time"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/service"

	"github.com/spf13/viper"
)

// DefaultSheetID is the response sheet of the transit survey form
const DefaultSheetID = "1modLnxoX48zBDSV495GvOepaNcqXHErUAb0gU5sNQxw"

// Config is the dashboard configuration
type Config struct {
	Port             int           `mapstructure:"port" yaml:"port"`
	SheetID          string        `mapstructure:"sheet_id" yaml:"sheet_id"`
	Source           string        `mapstructure:"source" yaml:"source"`
	Exclusions       []string      `mapstructure:"exclusions" yaml:"exclusions"`
	TimestampColumns []string      `mapstructure:"timestamp_columns" yaml:"timestamp_columns"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	MaxCharts        int           `mapstructure:"max_charts" yaml:"max_charts"`
	Insights         bool          `mapstructure:"insights" yaml:"insights"`
	MaxInsights      int           `mapstructure:"max_insights" yaml:"max_insights"`
	ChartWidth       int           `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight      int           `mapstructure:"chart_height" yaml:"chart_height"`
	CORSOrigins      []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
// An explicit cfgFile must exist; otherwise ./survey-dashboard.yaml is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SURVEY")
	v.AutomaticEnv()
	// PORT is honoured unprefixed, as hosting platforms set it.
	if err := v.BindEnv("port", "SURVEY_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	defaults := analysis.DefaultOptions()
	v.SetDefault("port", 5000)
	v.SetDefault("sheet_id", DefaultSheetID)
	v.SetDefault("source", "")
	v.SetDefault("exclusions", defaults.Exclusions)
	v.SetDefault("timestamp_columns", defaults.TimestampColumns)
	v.SetDefault("cache_ttl", 10*time.Second)
	v.SetDefault("refresh_interval", 10*time.Second)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("max_charts", 0)
	v.SetDefault("insights", true)
	v.SetDefault("max_insights", 0)
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 480)
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("survey-dashboard")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no component can run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SourceLocator() == "" {
		return fmt.Errorf("either source or sheet_id must be set")
	}
	if c.MaxCharts < 0 || c.MaxInsights < 0 {
		return fmt.Errorf("max_charts and max_insights must not be negative")
	}
	// 0 disables refresh; anything shorter than a second cannot be expressed
	// by the page's meta refresh
	if c.RefreshInterval > 0 && c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval %s is below 1s", c.RefreshInterval)
	}
	return nil
}

// SourceLocator returns the configured source, or the export URL of sheet_id
func (c *Config) SourceLocator() string {
	if c.Source != "" {
		return c.Source
	}
	if c.SheetID != "" {
		return service.GoogleSheetURL(c.SheetID)
	}
	return ""
}

// AnalysisOptions maps the config onto one analysis pass
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Exclusions:       c.Exclusions,
		TimestampColumns: c.TimestampColumns,
		MaxCharts:        c.MaxCharts,
		Insights:         c.Insights,
		MaxInsights:      c.MaxInsights,
	}
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
