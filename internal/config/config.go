// Package config reads and writes safespend.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the workspace.
const FileName = "safespend.yaml"

// Config represents the top-level safespend.yaml configuration.
type Config struct {
	Owner          string           `yaml:"owner"`
	Currency       CurrencyConfig   `yaml:"currency"`
	OpeningBalance string           `yaml:"opening_balance"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	Forecast       ForecastConfig   `yaml:"forecast"`
	Insights       InsightsConfig   `yaml:"insights"`
	Log            LogConfig        `yaml:"log"`
}

// CurrencyConfig describes the single currency all amounts are in.
type CurrencyConfig struct {
	Code       string `yaml:"code"`
	Symbol     string `yaml:"symbol"`
	MinorUnits int32  `yaml:"minor_units"` // decimal places of the smallest unit
}

// ClassifierConfig controls the language model behind `safespend add`.
type ClassifierConfig struct {
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Concurrency int           `yaml:"concurrency"`
}

// ForecastConfig controls `safespend forecast`.
type ForecastConfig struct {
	Weeks       int    `yaml:"weeks"`
	DangerRatio string `yaml:"danger_ratio"` // fraction of the starting balance
}

// InsightsConfig controls `safespend insights`.
type InsightsConfig struct {
	LeakThreshold string `yaml:"leak_threshold"` // monthly spend that flags a category
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Path returns the config path for a workspace root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads a safespend.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
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

// Default returns a Config with sensible defaults for a new workspace.
func Default(owner string) *Config {
	return &Config{
		Owner: owner,
		Currency: CurrencyConfig{
			Code:       "INR",
			Symbol:     "₹",
			MinorUnits: 2,
		},
		OpeningBalance: "0",
		Classifier: ClassifierConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     30 * time.Second,
			APIKeyEnv:   "GEMINI_API_KEY",
			Concurrency: 4,
		},
		Forecast: ForecastConfig{
			Weeks:       8,
			DangerRatio: "0.2",
		},
		Insights: InsightsConfig{
			LeakThreshold: "10000",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Currency.Code == "" {
		errs = append(errs, errors.New("currency.code is required"))
	}
	if c.Currency.MinorUnits < 0 || c.Currency.MinorUnits > 4 {
		errs = append(errs, fmt.Errorf("currency.minor_units must be between 0 and 4, got %d", c.Currency.MinorUnits))
	}
	if _, err := c.Opening(); err != nil {
		errs = append(errs, err)
	}
	if c.Classifier.Timeout < 0 {
		errs = append(errs, fmt.Errorf("classifier.timeout must not be negative, got %s", c.Classifier.Timeout))
	}
	if c.Classifier.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("classifier.concurrency must not be negative, got %d", c.Classifier.Concurrency))
	}
	if c.Forecast.Weeks < 0 {
		errs = append(errs, fmt.Errorf("forecast.weeks must not be negative, got %d", c.Forecast.Weeks))
	}
	if _, err := c.DangerRatio(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LeakThreshold(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error, disabled", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Opening returns the opening balance, zero when unset.
func (c *Config) Opening() (decimal.Decimal, error) {
	if c.OpeningBalance == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.OpeningBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("opening_balance %q is not a number", c.OpeningBalance)
	}
	return d, nil
}

// DangerRatio returns forecast.danger_ratio, 0.2 when unset.
func (c *Config) DangerRatio() (decimal.Decimal, error) {
	if c.Forecast.DangerRatio == "" {
		return decimal.RequireFromString("0.2"), nil
	}
	d, err := decimal.NewFromString(c.Forecast.DangerRatio)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("forecast.danger_ratio %q must be a number between 0 and 1", c.Forecast.DangerRatio)
	}
	return d, nil
}

// LeakThreshold returns insights.leak_threshold, 10000 when unset.
func (c *Config) LeakThreshold() (decimal.Decimal, error) {
	if c.Insights.LeakThreshold == "" {
		return decimal.NewFromInt(10000), nil
	}
	d, err := decimal.NewFromString(c.Insights.LeakThreshold)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("insights.leak_threshold %q must be a positive number", c.Insights.LeakThreshold)
	}
	return d, nil
}

// LoadEnv loads <repoRoot>/.env into the process environment without
// overriding variables that are already set. A missing file is fine.
func LoadEnv(repoRoot string) error {
	path := filepath.Join(repoRoot, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// APIKey returns the classifier API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	name := c.Classifier.APIKeyEnv
	if name == "" {
		name = "GEMINI_API_KEY"
	}
	return os.Getenv(name)
}
