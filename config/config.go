// Package config reads the folio.toml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "folio.toml"

// Duration is a time.Duration written as "24h" in the file.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Config holds the application configuration.
type Config struct {
	DataDir         string            `toml:"data_dir"`
	LedgerDir       string            `toml:"ledger_dir"`
	NavDir          string            `toml:"nav_dir"`
	BenchmarkDir    string            `toml:"benchmark_dir"`
	CacheFile       string            `toml:"cache_file"`
	HTTPCacheDir    string            `toml:"http_cache_dir"`
	MemoDir         string            `toml:"memo_dir"`
	NavStore        string            `toml:"nav_store"`
	SQLitePath      string            `toml:"sqlite_path"`
	Currency        string            `toml:"currency"`
	CacheTTL        Duration          `toml:"cache_ttl"`
	LogLevel        string            `toml:"log_level"`
	Sources         []string          `toml:"sources"`
	Listen          string            `toml:"listen"`
	RefreshSchedule string            `toml:"refresh_schedule"`
	Symbols         map[string]string `toml:"symbols"`
	Model           string            `toml:"model"`

	// EODHDAPIKey is only read from the environment.
	EODHDAPIKey string `toml:"-"`
}

// Sources known by the oracle.
const (
	SourceEODHD     = "eodhd"
	SourceTradegate = "tradegate"
	SourceYahoo     = "yahoo"
)

// Load reads the configuration file at path, then applies the environment
// (including a .env file in the working directory) and the defaults.
//
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if path == "" {
		path = DefaultFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("FOLIO_DATA_DIR", c.DataDir)
	c.Currency = getEnv("FOLIO_CURRENCY", c.Currency)
	c.LogLevel = getEnv("FOLIO_LOG_LEVEL", c.LogLevel)
	c.EODHDAPIKey = getEnv("EODHD_API_KEY", c.EODHDAPIKey)
}

func (c *Config) applyDefaults() {
	c.DataDir = orDefault(c.DataDir, "data")
	c.LedgerDir = orDefault(c.LedgerDir, filepath.Join(c.DataDir, "transacciones"))
	c.NavDir = orDefault(c.NavDir, filepath.Join(c.DataDir, "nav_historico"))
	c.BenchmarkDir = orDefault(c.BenchmarkDir, filepath.Join(c.DataDir, "benchmarks"))
	c.CacheFile = orDefault(c.CacheFile, filepath.Join(c.DataDir, "cache_nav_real.json"))
	c.HTTPCacheDir = orDefault(c.HTTPCacheDir, filepath.Join(c.DataDir, "http_cache"))
	c.MemoDir = orDefault(c.MemoDir, filepath.Join(c.DataDir, "memo"))
	c.NavStore = orDefault(c.NavStore, "csv")
	c.SQLitePath = orDefault(c.SQLitePath, filepath.Join(c.DataDir, "nav.db"))
	c.Currency = orDefault(c.Currency, "EUR")
	c.LogLevel = orDefault(c.LogLevel, "info")
	c.Listen = orDefault(c.Listen, ":8080")
	c.RefreshSchedule = orDefault(c.RefreshSchedule, "0 18 * * 1-5")
	c.Model = orDefault(c.Model, "gemini-2.5-flash")
	if c.CacheTTL <= 0 {
		c.CacheTTL = Duration(24 * time.Hour)
	}
	if len(c.Sources) == 0 {
		c.Sources = []string{SourceEODHD, SourceTradegate, SourceYahoo}
	}
}

// Validate checks the values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.NavStore {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("invalid nav_store %q: want csv or sqlite", c.NavStore)
	}
	for _, s := range c.Sources {
		switch s {
		case SourceEODHD, SourceTradegate, SourceYahoo:
		default:
			return fmt.Errorf("unknown price source %q", s)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
