package migrations

import "embed"

// FS contains embedded SQLite migrations for forge storage.
//
//go:embed *.sql
var FS embed.FS
