// Package migrations embeds the goose SQL migrations that define the
// service's schema.
package migrations

import "embed"

// Files holds the embedded SQL migration files.
//
//go:embed *.sql
var Files embed.FS
