package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv loads variables from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if port := lookupEnv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	setFromEnv(&cfg.Addr, "ADDR")
	setFromEnv(&cfg.DBDriver, "DB_DRIVER")
	setFromEnv(&cfg.DatabaseDSN, "DATABASE_DSN")
	setFromEnv(&cfg.SecretKey, "SECRET_KEY")
	setFromEnv(&cfg.TemplatesDir, "TEMPLATES_DIR")
	setFromEnv(&cfg.LogLevel, "LOG_LEVEL")
	setFromEnv(&cfg.LogFormat, "LOG_FORMAT")

	if raw := lookupEnv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		cfg.SessionTTL = ttl
	}
	return nil
}

func setFromEnv(dst *string, key string) {
	if value := lookupEnv(key); value != "" {
		*dst = value
	}
}

func lookupEnv(key string) string {
	value, _ := os.LookupEnv(key)
	return value
}
