package postgres

import "embed"

// MigrationsFS embeds the goose migration scripts so the binary can
// migrate its own schema without a migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migration scripts inside MigrationsFS.
const MigrationsDir = "migrations"
