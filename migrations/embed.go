package migrations

import "embed"

// Files exposes the goose migrations, one directory per SQL dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var Files embed.FS
