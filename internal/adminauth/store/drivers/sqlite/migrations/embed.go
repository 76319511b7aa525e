// Package migrations embeds the sqlite schema migration files so the binary
// is self-contained.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
