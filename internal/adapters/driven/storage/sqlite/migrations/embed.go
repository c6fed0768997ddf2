// Package migrations embeds the SQL migrations of the credentials database.
package migrations

import "embed"

// FS holds the numbered up/down migration pairs.
//
//go:embed *.sql
var FS embed.FS
