package config

import (
	"flag"
	"fmt"
	"time"
)

// flagValues holds what was given on the command line. Only flags that were
// actually set override lower layers.
type flagValues struct {
	configFile string
	envFile    string

	addr         string
	dbDriver     string
	dsn          string
	secret       string
	sessionTTL   time.Duration
	templatesDir string
	logLevel     string
	logFormat    string

	set  map[string]bool
	rest []string
}

// parseFlags reads the server flags.
//
// Supported flags:
//
//	-config string   YAML config file
//	-env-file string .env file (default ".env")
//	-a string        listen address
//	-driver string   database driver: sqlite3, pgx, postgres
//	-d string        database DSN
//	-s string        session signing secret
//	-ttl duration    session lifetime, e.g. 24h
//	-templates string templates directory (default: embedded)
//	-log-level string
//	-log-format string json or text
func parseFlags(args []string) (*flagValues, error) {
	fl := &flagValues{set: make(map[string]bool)}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&fl.configFile, "config", "", "YAML config file")
	fs.StringVar(&fl.envFile, "env-file", ".env", "dotenv file")
	fs.StringVar(&fl.addr, "a", "", "address and port to run server")
	fs.StringVar(&fl.dbDriver, "driver", "", "database driver")
	fs.StringVar(&fl.dsn, "d", "", "database DSN")
	fs.StringVar(&fl.secret, "s", "", "session secret key")
	fs.DurationVar(&fl.sessionTTL, "ttl", 0, "session lifetime")
	fs.StringVar(&fl.templatesDir, "templates", "", "templates directory")
	fs.StringVar(&fl.logLevel, "log-level", "", "log level")
	fs.StringVar(&fl.logFormat, "log-format", "", "log format")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) { fl.set[f.Name] = true })
	fl.rest = fs.Args()

	return fl, nil
}

// apply overlays the flags that were set onto cfg.
func (fl *flagValues) apply(cfg *Config) {
	if fl.set["a"] {
		cfg.Addr = fl.addr
	}
	if fl.set["driver"] {
		cfg.DBDriver = fl.dbDriver
	}
	if fl.set["d"] {
		cfg.DatabaseDSN = fl.dsn
	}
	if fl.set["s"] {
		cfg.SecretKey = fl.secret
	}
	if fl.set["ttl"] {
		cfg.SessionTTL = fl.sessionTTL
	}
	if fl.set["templates"] {
		cfg.TemplatesDir = fl.templatesDir
	}
	if fl.set["log-level"] {
		cfg.LogLevel = fl.logLevel
	}
	if fl.set["log-format"] {
		cfg.LogFormat = fl.logFormat
	}
}
