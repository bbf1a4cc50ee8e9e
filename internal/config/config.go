package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		MaxBodySize int    `yaml:"max_body_size"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	ReferenceRates struct {
		BaseURL   string `yaml:"base_url"`
		RateLimit int    `yaml:"rate_limit"`
	} `yaml:"reference_rates"`
}

// Load reads an optional .env file and an optional YAML file, then applies
// environment overrides and defaults. An empty database path disables the run
// store.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CREDIT_DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFERENCE_RATE_URL"); v != "" {
		cfg.ReferenceRates.BaseURL = v
	}
	if v := os.Getenv("REFERENCE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse REFERENCE_RATE_LIMIT: %w", err)
		}
		cfg.ReferenceRates.RateLimit = n
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 8 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.ReferenceRates.RateLimit == 0 {
		cfg.ReferenceRates.RateLimit = 5
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric, got %q", c.Server.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.ReferenceRates.RateLimit < 0 {
		return fmt.Errorf("reference_rates.rate_limit must not be negative")
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("server.max_body_size must not be negative")
	}
	return nil
}
