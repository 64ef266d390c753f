// Package migrations embeds the goose SQL migrations, including the seed
// data for the read-only catalog tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
