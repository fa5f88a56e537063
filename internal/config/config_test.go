package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pricing.DefaultMarginPct != 0.20 {
		t.Errorf("Expected margin 0.20, got %v", cfg.Pricing.DefaultMarginPct)
	}
	if cfg.Pricing.DefaultRoundingIncrement != 50000 {
		t.Errorf("Expected rounding 50000, got %d", cfg.Pricing.DefaultRoundingIncrement)
	}
	if cfg.Pricing.DefaultValidityHours != 72 {
		t.Errorf("Expected validity 72h, got %d", cfg.Pricing.DefaultValidityHours)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Storage.Driver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pricing.Currency != "COP" {
		t.Errorf("Expected defaults, got %+v", cfg.Pricing)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freight.yaml")
	src := "pricing:\n  default_margin_pct: 0.15\nstorage:\n  driver: memory\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pricing.DefaultMarginPct != 0.15 {
		t.Errorf("Expected margin 0.15, got %v", cfg.Pricing.DefaultMarginPct)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Expected memory driver, got %s", cfg.Storage.Driver)
	}
	// Unset keys keep their defaults
	if cfg.Pricing.DefaultRoundingIncrement != 50000 {
		t.Errorf("Expected default rounding, got %d", cfg.Pricing.DefaultRoundingIncrement)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freight.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "freight.json")
	cfg := Default()
	cfg.Catalog.Path = "configs/catalog.hcl"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Catalog.Path != "configs/catalog.hcl" {
		t.Errorf("Expected catalog path to survive, got %q", loaded.Catalog.Path)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FREIGHT_STORAGE_DRIVER", "postgres")
	t.Setenv("FREIGHT_PG_DSN", "postgres://localhost/freight")
	t.Setenv("FREIGHT_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Storage.Driver != DriverPostgres || cfg.Storage.PostgresDSN != "postgres://localhost/freight" {
		t.Errorf("Unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FREIGHT_CATALOG_PATH=from-dotenv.hcl\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FREIGHT_CATALOG_PATH", "")
	os.Unsetenv("FREIGHT_CATALOG_PATH")

	LoadEnv(path)
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Catalog.Path != "from-dotenv.hcl" {
		t.Errorf("Expected catalog path from .env, got %q", cfg.Catalog.Path)
	}
}
