package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "settleup.yaml"

// Environment variables that override the file.
const (
	EnvReportingCurrency = "SETTLEUP_REPORTING_CURRENCY"
	EnvRatesURL          = "SETTLEUP_RATES_URL"
	EnvRatesFile         = "SETTLEUP_RATES_FILE"
	EnvLogLevel          = "SETTLEUP_LOG_LEVEL"
)

// Config represents the top-level settleup.yaml configuration.
type Config struct {
	Group    GroupConfig    `yaml:"group"`
	Currency CurrencyConfig `yaml:"currency"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

// GroupConfig names the people sharing expenses.
type GroupConfig struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members,omitempty"`
}

// CurrencyConfig controls conversion into the reporting currency.
type CurrencyConfig struct {
	Reporting string        `yaml:"reporting"`
	RatesURL  string        `yaml:"rates_url"` // {base} is replaced with the reporting currency
	RatesFile string        `yaml:"rates_file,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	DescriptionPlaceholder string `yaml:"description_placeholder"`
	OutputDir              string `yaml:"output_dir,omitempty"`
	WriteCSV               bool   `yaml:"write_csv"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a settleup.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", nil)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Currency.Reporting = strings.ToUpper(strings.TrimSpace(cfg.Currency.Reporting))
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default("", nil), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new group.
func Default(groupName string, members []string) *Config {
	return &Config{
		Group: GroupConfig{
			Name:    groupName,
			Members: members,
		},
		Currency: CurrencyConfig{
			Reporting: "DKK",
			RatesURL:  "https://open.er-api.com/v6/latest/{base}",
			Timeout:   10 * time.Second,
		},
		Report: ReportConfig{
			DescriptionPlaceholder: "Unnamed item",
			WriteCSV:               true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadEnvFile loads dir/.env into the process environment. Variables that
// are already set win; a missing file is not an error.
func LoadEnvFile(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any SETTLEUP_* variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvReportingCurrency); v != "" {
		c.Currency.Reporting = strings.ToUpper(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvRatesURL); v != "" {
		c.Currency.RatesURL = v
	}
	if v := os.Getenv(EnvRatesFile); v != "" {
		c.Currency.RatesFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}
