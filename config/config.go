package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported document store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the service configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Search   SearchConfig   `yaml:"search"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// StoreConfig configures the document store connection.
// DSN is a postgres connection string or a sqlite file path, depending on Driver.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// PricingConfig configures the totals calculator
type PricingConfig struct {
	TaxRate float64 `yaml:"tax_rate"`
}

// SearchConfig configures order search
type SearchConfig struct {
	Limit int `yaml:"limit"`
}

// SessionsConfig configures the renewal session registry.
// IdleTimeout accepts Go durations ("30m"); a negative value disables expiry.
type SessionsConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Store: StoreConfig{
			Driver:      DriverPostgres,
			AutoMigrate: true,
		},
		Pricing: PricingConfig{
			TaxRate: 0.08,
		},
		Search: SearchConfig{
			Limit: 10,
		},
		Sessions: SessionsConfig{
			IdleTimeout: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// Load reads configuration from a YAML file and applies environment overrides.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		// PORT from some hosts includes a leading colon
		c.Server.Port = strings.TrimPrefix(port, ":")
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		c.Store.Driver = strings.ToLower(strings.TrimSpace(driver))
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Store.DSN = dsn
	} else if c.Store.DSN == "" && c.Store.Driver == DriverPostgres {
		c.Store.DSN = postgresDSNFromEnv()
	}

	if rate := os.Getenv("TAX_RATE"); rate != "" {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return fmt.Errorf("invalid TAX_RATE %q: %w", rate, err)
		}
		c.Pricing.TaxRate = v
	}

	if limit := os.Getenv("SEARCH_LIMIT"); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_LIMIT %q: %w", limit, err)
		}
		c.Search.Limit = v
	}

	if idle := os.Getenv("SESSION_IDLE_TIMEOUT"); idle != "" {
		v, err := time.ParseDuration(idle)
		if err != nil {
			return fmt.Errorf("invalid SESSION_IDLE_TIMEOUT %q: %w", idle, err)
		}
		c.Sessions.IdleTimeout = v
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if os.Getenv("ENV") == "production" {
		c.Logging.Development = false
	}

	return nil
}

// postgresDSNFromEnv builds a connection string from individual DB_* variables.
// Returns an empty string when the required variables are missing.
func postgresDSNFromEnv() string {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	if host == "" || user == "" || dbname == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q (expected %s or %s)", c.Store.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Pricing.TaxRate < 0 {
		return fmt.Errorf("tax rate cannot be negative: %v", c.Pricing.TaxRate)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search limit must be greater than 0: %d", c.Search.Limit)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
