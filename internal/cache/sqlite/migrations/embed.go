package migrations

import "embed"

// FS contains embedded SQLite migrations for the feed cache.
//
//go:embed *.sql
var FS embed.FS
