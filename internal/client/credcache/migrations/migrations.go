// Package migrations embeds the credential cache schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
