// Package migrations holds the numbered schema files applied by the
// SQLite store on open, as NNN_name.up.sql with a matching .down.sql.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
