// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"freight-rate/internal/logging"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Pricing contains commercial defaults used when no policy is active
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`

	// Storage selects and configures the parameter/dataset backend
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Catalog points at the HCL parameter catalog
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Market contains market-reference display settings
	Market MarketConfig `json:"market" yaml:"market"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is the ISO code printed next to amounts
	Currency string `json:"currency" yaml:"currency"`

	// DefaultMarginPct applies when no commercial policy is active (0.20 = 20%)
	DefaultMarginPct float64 `json:"default_margin_pct" yaml:"default_margin_pct"`

	// DefaultRoundingIncrement applies when no commercial policy is active
	DefaultRoundingIncrement int64 `json:"default_rounding_increment" yaml:"default_rounding_increment"`

	// DefaultValidityHours applies when no commercial policy is active
	DefaultValidityHours int `json:"default_validity_hours" yaml:"default_validity_hours"`
}

// StorageConfig contains storage backend settings
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres
	Driver string `json:"driver" yaml:"driver"`

	// SQLitePath is the sqlite database file
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`

	// PostgresDSN is used for the historical dataset when Driver is postgres
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty"`
}

// CatalogConfig contains parameter catalog settings
type CatalogConfig struct {
	// Path is an .hcl catalog file loaded into memory stores on start
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MarketConfig contains market-reference settings
type MarketConfig struct {
	// SampleLimit caps the rows printed for drill-down; 0 prints all
	SampleLimit int `json:"sample_limit" yaml:"sample_limit"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".freight-rate", "freight.db")

	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency:                 "COP",
			DefaultMarginPct:         0.20,
			DefaultRoundingIncrement: 50000,
			DefaultValidityHours:     72,
		},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: dbPath,
		},
		Market: MarketConfig{
			SampleLimit: 20,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or YAML file; a missing file yields defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv reads .env files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// ApplyEnv overrides fields from FREIGHT_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FREIGHT_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("FREIGHT_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("FREIGHT_PG_DSN"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("FREIGHT_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("FREIGHT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
