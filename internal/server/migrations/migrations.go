// Package migrations embeds the goose SQL migrations for the gophnotes schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
