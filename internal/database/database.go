package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/travel-diary/app/internal/database/migrations"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// DB wraps a connection pool together with the driver it was opened with,
// so queries can be written once with "?" placeholders.
type DB struct {
	*sql.DB
	Driver string
}

// InitDB opens the database, verifies the connection and brings the schema
// up to date. logger receives goose output and may be nil.
func InitDB(ctx context.Context, driver, dataSourceName string, logger goose.Logger) (*DB, error) {
	db, err := Open(ctx, driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Open opens and pings the database without touching the schema.
func Open(ctx context.Context, driver, dataSourceName string) (*DB, error) {
	if !SupportedDriver(driver) {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		dataSourceName = sqliteDSN(dataSourceName)
	}

	sqlDB, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// SQLite writers.
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{DB: sqlDB, Driver: driver}, nil
}

// SupportedDriver reports whether driver is one InitDB can open.
func SupportedDriver(driver string) bool {
	switch driver {
	case DriverSQLite, DriverPgx, DriverPostgres:
		return true
	}
	return false
}

// sqliteDSN turns on foreign key enforcement unless the DSN already sets it
// one way or the other.
func sqliteDSN(dsn string) string {
	_, query, hasQuery := strings.Cut(dsn, "?")
	if values, err := url.ParseQuery(query); err == nil {
		if values.Has("_foreign_keys") || values.Has("_fk") {
			return dsn
		}
	}

	if hasQuery {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// gooseMu guards goose's package-level base FS, dialect and logger.
var gooseMu sync.Mutex

// Migrate applies all pending embedded migrations for the driver's dialect.
func (db *DB) Migrate(ctx context.Context, logger goose.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := db.prepareGoose(logger)
	if err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := db.prepareGoose(nil); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// prepareGoose configures goose for this database and returns the migration
// directory to use. Callers must hold gooseMu.
func (db *DB) prepareGoose(logger goose.Logger) (string, error) {
	if logger == nil {
		logger = goose.NopLogger()
	}
	goose.SetLogger(logger)
	goose.SetBaseFS(migrations.FS)

	dialect, dir := "sqlite3", "sqlite3"
	if db.Driver != DriverSQLite {
		dialect, dir = "postgres", "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set migration dialect: %w", err)
	}
	return dir, nil
}

// rebind rewrites "?" placeholders into the "$n" form PostgreSQL drivers expect.
func (db *DB) rebind(query string) string {
	if db.Driver == DriverSQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
