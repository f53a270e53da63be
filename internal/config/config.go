// Package config assembles the server configuration from defaults, an
// optional YAML file, the environment (including a .env file) and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the travel diary server.
//
// Fields:
//   - Addr: HTTP listen address, e.g. ":8080".
//   - DBDriver: database/sql driver, one of "sqlite3", "pgx" or "postgres".
//   - DatabaseDSN: data source name passed to the driver.
//   - SecretKey: HMAC key signing session cookies. Required.
//   - SessionTTL: lifetime of a login session.
//   - TemplatesDir: load templates from disk instead of the embedded copy.
//   - LogLevel / LogFormat: logrus level name and "json" or "text".
type Config struct {
	Addr         string        `yaml:"addr"`
	DBDriver     string        `yaml:"db_driver"`
	DatabaseDSN  string        `yaml:"database_dsn"`
	SecretKey    string        `yaml:"secret_key"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	TemplatesDir string        `yaml:"templates_dir"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
}

// LoadDefaults populates Config with development defaults.
// SecretKey is left empty on purpose and must be provided.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DBDriver = "sqlite3"
	c.DatabaseDSN = "travel_diary.db?_foreign_keys=on"
	c.SessionTTL = 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required (set SECRET_KEY or -s)")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

// ValidateDatabase checks only the datastore settings.
func (c *Config) ValidateDatabase() error {
	switch c.DBDriver {
	case "sqlite3", "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	return nil
}

// Load builds a validated Config from args (normally os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg, _, err := Parse(args)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse layers all configuration sources without validating the result.
// It also returns the positional arguments left after the flags.
func Parse(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fl, err := parseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	if err := loadDotEnv(fl.envFile); err != nil {
		return nil, nil, err
	}

	configFile := fl.configFile
	if configFile == "" {
		configFile = lookupEnv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadYAML(cfg, configFile); err != nil {
			return nil, nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, nil, err
	}

	fl.apply(cfg)
	return cfg, fl.rest, nil
}
