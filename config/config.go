// Package config provides YAML configuration parsing for exodash.
//
// This package enables running exodash as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Exoplanet Explorer Dashboard
//	port: 5006
//	data: ${EXODASH_DATA:-exoplanets.csv}
//
//	columns:
//	  name: pl_name
//	  host: hostname
//	  year: disc_year
//	  method: discoverymethod
//	  table: [pl_name, hostname, pl_bmasse, pl_rade, pl_orbper]
//
//	default_view:
//	  x: pl_orbper
//	  y: pl_rade
//	  range:
//	    column: pl_bmasse
//	    max: 1000
//	  filters:
//	    discoverymethod: [Transit]
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

const (
	defaultPort            = 5006
	defaultMaxSessions     = 64
	defaultShutdownTimeout = 10 * time.Second

	// minChartSize keeps go-chart's axes and padding from swallowing the plot.
	minChartSize = 100
)

// Config is the root configuration structure for exodash.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Exoplanet Explorer Dashboard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 5006.
	Port int `yaml:"port"`

	// Data is the path of the CSV file to serve. Relative paths are resolved
	// against the config file's directory by [Load].
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Data string `yaml:"data"`

	// MaxSessions caps concurrent browser sessions. Defaults to 64.
	MaxSessions int `yaml:"max_sessions"`

	// ShutdownTimeout bounds graceful shutdown of the serve command.
	// Accepts duration strings like "10s", "1m". Defaults to 10s.
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	// Columns assigns dataset columns to dashboard roles.
	Columns ColumnsConfig `yaml:"columns"`

	// PageSize is the number of table rows per page. Defaults to 10.
	PageSize int `yaml:"page_size"`

	// Chart sets the rendered chart size in pixels. Defaults to 450x300.
	Chart ChartConfig `yaml:"chart"`

	// Labels maps column names to display labels, merged over the built-in
	// NASA archive labels.
	Labels map[string]string `yaml:"labels"`

	// DefaultView adjusts the view new sessions start from.
	DefaultView ViewConfig `yaml:"default_view"`
}

// ColumnsConfig names the dataset columns that play a role in the dashboard.
// Unset roles keep the NASA Exoplanet Archive column names.
type ColumnsConfig struct {
	// Name labels scatter points.
	Name string `yaml:"name"`

	// Host is counted for the distinct host star summary.
	Host string `yaml:"host"`

	// Year and Method drive the discovery timeline.
	Year   string `yaml:"year"`
	Method string `yaml:"method"`

	// RelationX and RelationY are the axes of the fixed relation scatter.
	RelationX string `yaml:"relation_x"`
	RelationY string `yaml:"relation_y"`

	// Table lists the table's columns in order.
	Table []string `yaml:"table"`
}

// ChartConfig sets chart dimensions in pixels.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ViewConfig is the YAML form of a view change. Empty fields keep the
// automatically chosen default.
type ViewConfig struct {
	X       string              `yaml:"x"`
	Y       string              `yaml:"y"`
	Range   *view.Range         `yaml:"range"`
	Filters map[string][]string `yaml:"filters"`
	Sort    string              `yaml:"sort"`
	Desc    bool                `yaml:"desc"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing. A relative
// data path is resolved against the directory holding the config file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Data != "" && !filepath.IsAbs(cfg.Data) {
		cfg.Data = filepath.Join(filepath.Dir(path), cfg.Data)
	}
	return cfg, nil
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Title and Data. Defaults are applied
// for Port (5006), MaxSessions (64) and ShutdownTimeout (10s); layout
// defaults are left to the view package.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.MaxSessions == 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(defaultShutdownTimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	var err error
	if c.Title, err = expandEnvVars(c.Title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if c.Data, err = expandEnvVars(c.Data); err != nil {
		return fmt.Errorf("data: %w", err)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max_sessions cannot be negative, got %d", c.MaxSessions)
	}
	if c.ShutdownTimeout.Duration() < time.Second {
		return fmt.Errorf("shutdown_timeout must be at least 1s, got %s", c.ShutdownTimeout.Duration())
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size cannot be negative, got %d", c.PageSize)
	}
	if w := c.Chart.Width; w != 0 && w < minChartSize {
		return fmt.Errorf("chart.width must be at least %d, got %d", minChartSize, w)
	}
	if h := c.Chart.Height; h != 0 && h < minChartSize {
		return fmt.Errorf("chart.height must be at least %d, got %d", minChartSize, h)
	}

	seen := make(map[string]struct{}, len(c.Columns.Table))
	for i, col := range c.Columns.Table {
		if col == "" {
			return fmt.Errorf("columns.table[%d]: column name is required", i)
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("columns.table[%d]: duplicate column %q", i, col)
		}
		seen[col] = struct{}{}
	}

	if rg := c.DefaultView.Range; rg != nil {
		for _, b := range []*float64{rg.Min, rg.Max} {
			if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
				return fmt.Errorf("default_view.range: bounds must be finite numbers, got %g", *b)
			}
		}
		if rg.Column == "" && (rg.Min != nil || rg.Max != nil) {
			return errors.New("default_view.range: column is required with min or max")
		}
		if rg.Min != nil && rg.Max != nil && *rg.Min > *rg.Max {
			return fmt.Errorf("default_view.range: min %g is greater than max %g", *rg.Min, *rg.Max)
		}
	}
	for col, vals := range c.DefaultView.Filters {
		if col == "" {
			return errors.New("default_view.filters: column name is required")
		}
		if len(vals) == 0 {
			return fmt.Errorf("default_view.filters[%s]: at least one value is required", col)
		}
	}

	return nil
}
