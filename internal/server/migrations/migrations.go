// Package migrations embeds the goose SQL migrations for the coursehub schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
