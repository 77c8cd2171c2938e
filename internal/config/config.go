// Package config holds the run configuration, resolved from flags,
// environment variables and an optional config file via Viper.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the standard artifact locations and pacing knobs.
const (
	DefaultDataFile     = "data.csv"
	DefaultDocsDir      = "docs"
	DefaultTemplatesDir = "templates"
	DefaultReportFile   = "README.md"

	DefaultRequestDelay   = 500 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxChartPoints = 8
)

// Config is the resolved configuration for one invocation.
type Config struct {
	DataFile       string
	DocsDir        string
	TemplatesDir   string
	ReportFile     string
	Token          string
	UseGraphQL     bool
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	MaxChartPoints int
}

// Init registers defaults and environment bindings. It is called once by
// Cobra's initialization hook before any command runs.
func Init() {
	viper.SetDefault("data", DefaultDataFile)
	viper.SetDefault("docs-dir", DefaultDocsDir)
	viper.SetDefault("templates-dir", DefaultTemplatesDir)
	viper.SetDefault("report", DefaultReportFile)
	viper.SetDefault("request-delay", DefaultRequestDelay)
	viper.SetDefault("request-timeout", DefaultRequestTimeout)
	viper.SetDefault("max-chart-points", DefaultMaxChartPoints)

	viper.SetEnvPrefix("PRWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// The credential follows the conventional GitHub variable rather than
	// the PRWATCH prefix. Its absence is not an error.
	_ = viper.BindEnv("github-token", "GITHUB_TOKEN")

	viper.SetConfigName(".prwatch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// A config file is optional; only read it when present.
	_ = viper.ReadInConfig()
}

// Load materializes the configuration from Viper's resolved state.
func Load() Config {
	return Config{
		DataFile:       viper.GetString("data"),
		DocsDir:        viper.GetString("docs-dir"),
		TemplatesDir:   viper.GetString("templates-dir"),
		ReportFile:     viper.GetString("report"),
		Token:          viper.GetString("github-token"),
		UseGraphQL:     viper.GetBool("graphql"),
		RequestDelay:   viper.GetDuration("request-delay"),
		RequestTimeout: viper.GetDuration("request-timeout"),
		MaxChartPoints: viper.GetInt("max-chart-points"),
	}
}

// ChartFile is the static PNG chart location.
func (c Config) ChartFile() string {
	return filepath.Join(c.DocsDir, "chart.png")
}

// ExportFile is the interactive chart document location.
func (c Config) ExportFile() string {
	return filepath.Join(c.DocsDir, "chart-data.json")
}

// PageFile is the rendered GitHub Pages document.
func (c Config) PageFile() string {
	return filepath.Join(c.DocsDir, "index.html")
}

// ReportTemplate is the markdown report template location.
func (c Config) ReportTemplate() string {
	return filepath.Join(c.TemplatesDir, "readme_template.md")
}

// PageTemplate is the page template location.
func (c Config) PageTemplate() string {
	return filepath.Join(c.TemplatesDir, "index_template.html")
}
