// Package migrations embeds the goose SQL migrations of the gloss database.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS
