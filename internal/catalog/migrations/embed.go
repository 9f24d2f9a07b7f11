// Package migrations embeds the catalog schema migrations.
package migrations

import "embed"

// FS holds the golang-migrate files, e.g. 000001_create_products.up.sql.
//
//go:embed *.sql
var FS embed.FS
