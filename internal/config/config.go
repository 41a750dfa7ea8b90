package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration, loaded from environment
// variables (GREENPULSE_ prefix) with an optional YAML file underneath.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// AnalysisConfig carries the analytical policy knobs. The cutoff year is
// deliberately a parameter instead of a package constant: the most recent
// year in upstream data is frequently incomplete, and tests need to
// exercise arbitrary windows.
type AnalysisConfig struct {
	CutoffYear       int `yaml:"cutoff_year" envconfig:"CUTOFF_YEAR" default:"2019" validate:"gte=1960,lte=2100"`
	BaseYear         int `yaml:"base_year" envconfig:"BASE_YEAR" default:"2000" validate:"gte=1960,lte=2100"`
	HorizonYear      int `yaml:"horizon_year" envconfig:"HORIZON_YEAR" default:"2030" validate:"gte=1960,lte=2100"`
	TopRecipients    int `yaml:"top_recipients" envconfig:"TOP_RECIPIENTS" default:"10" validate:"gt=0"`
	TopMovers        int `yaml:"top_movers" envconfig:"TOP_MOVERS" default:"10" validate:"gt=0"`
	ForecastEntities int `yaml:"forecast_entities" envconfig:"FORECAST_ENTITIES" default:"5" validate:"gt=0"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/greenpulse.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataFile   string `yaml:"data_file" envconfig:"DATA_FILE" default:"data/global_energy.csv"`
	FiguresDir string `yaml:"figures_dir" envconfig:"FIGURES_DIR" default:"figures"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
}

// GetReportPath returns the full path for a report artifact.
func (p PathsConfig) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetFigurePath returns the full path for a rendered figure.
func (p PathsConfig) GetFigurePath(filename string) string {
	return filepath.Join(p.FiguresDir, filename)
}

// Load loads configuration from environment variables and the default
// config file location.
func Load() (*Config, error) {
	return LoadFrom("greenpulse.yaml")
}

// LoadFrom loads configuration, merging environment overrides on top of an
// optional YAML file at path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// Environment variables take precedence; envconfig also applies the
	// struct defaults for anything still unset.
	if err := envconfig.Process("GREENPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks field constraints plus the cross-field analysis ordering
// (base <= cutoff <= horizon) that tag validation cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("struct validation: %w", err)
	}
	a := c.Analysis
	if a.BaseYear > a.CutoffYear {
		return fmt.Errorf("base year %d after cutoff year %d", a.BaseYear, a.CutoffYear)
	}
	if a.HorizonYear < a.CutoffYear {
		return fmt.Errorf("horizon year %d before cutoff year %d", a.HorizonYear, a.CutoffYear)
	}
	return nil
}
