// Package migrations embeds SQL migration files for the record store.
// The files use portable SQL so SQLite and PostgreSQL share them.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
