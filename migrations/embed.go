// Package migrations embeds SQL migration files.
package migrations

import "embed"

// PostgresFS contains the schema migrations for the postgres entity store.
// Files are named {version}_{name}_up.sql and {version}_{name}_down.sql.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// PostgresDir is the directory within PostgresFS where migrations live.
const PostgresDir = "postgres"
