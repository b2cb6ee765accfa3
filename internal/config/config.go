package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

// DefaultInput is the log file analyzed when no input is configured.
const DefaultInput = "dc_reports_boot_00003.csv"

// Config holds all analyzer settings, populated from environment variables.
type Config struct {
	Input        string
	OutDir       string
	Presentation string
	MetricsFile  string
	LogLevel     string
	LogFormat    string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Input:        envOrDefault("DCR_INPUT", DefaultInput),
		OutDir:       envOrDefault("DCR_OUT_DIR", "out"),
		Presentation: os.Getenv("DCR_PRESENTATION"),
		MetricsFile:  os.Getenv("DCR_METRICS_TEXTFILE"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "text"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.OutDir == "" {
		return nil, errors.New("DCR_OUT_DIR is required")
	}

	return cfg, nil
}

// Presentation controls report locale and chart geometry. The zero value
// means library defaults everywhere.
type Presentation struct {
	Locale string `yaml:"locale"`
	Charts Charts `yaml:"charts"`
}

// Charts is the chart geometry block of a presentation file.
type Charts struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FontPath string `yaml:"font_path"`
}

// maxChartDim bounds configured chart geometry.
const maxChartDim = 4096

// LoadPresentation parses a YAML presentation file and validates it.
func LoadPresentation(path string) (*Presentation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presentation: %w", err)
	}
	var p Presentation
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse presentation: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Presentation) validate() error {
	if p.Locale != "" {
		if _, err := report.ParseLocale(p.Locale); err != nil {
			return err
		}
	}
	if p.Charts.Width < 0 || p.Charts.Width > maxChartDim {
		return fmt.Errorf("chart width %d out of range", p.Charts.Width)
	}
	if p.Charts.Height < 0 || p.Charts.Height > maxChartDim {
		return fmt.Errorf("chart height %d out of range", p.Charts.Height)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
