// Package migrations embeds the goose SQL migrations of the dev server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
