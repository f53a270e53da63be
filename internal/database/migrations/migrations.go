// Package migrations embeds the goose migrations for every supported dialect.
package migrations

import "embed"

// FS holds one directory of migrations per dialect: sqlite3 and postgres.
//
//go:embed sqlite3/*.sql postgres/*.sql
var FS embed.FS
