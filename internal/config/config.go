package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backend names accepted in configuration.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	DataDir              string `yaml:"data_dir"`
	Store                string `yaml:"store"`
	SQLitePath           string `yaml:"sqlite_path"`
	LogLevel             string `yaml:"log_level"`
	RestockOnOrderDelete bool   `yaml:"restock_on_order_delete"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		DataDir:    "data",
		Store:      StoreJSON,
		SQLitePath: "data/bakehouse.db",
		LogLevel:   "info",
	}
}

// Load reads configuration from the YAML file at path (a missing file is
// not an error), then applies environment overrides. A .env file is
// loaded into the environment first if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v, ok := os.LookupEnv("BAKEHOUSE_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv("BAKEHOUSE_STORE"); ok {
		cfg.Store = v
	}
	if v, ok := os.LookupEnv("BAKEHOUSE_SQLITE_PATH"); ok {
		cfg.SQLitePath = v
	}
	if v, ok := os.LookupEnv("BAKEHOUSE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("BAKEHOUSE_RESTOCK_ON_ORDER_DELETE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BAKEHOUSE_RESTOCK_ON_ORDER_DELETE value %q: %w", v, err)
		}
		cfg.RestockOnOrderDelete = b
	}

	if cfg.Store != StoreJSON && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level onto slog's levels; unknown
// values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
