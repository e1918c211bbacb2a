// Package migrations embeds goose SQL migrations for the preset tables.
// The statements are written to run on both PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
