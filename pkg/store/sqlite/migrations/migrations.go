// Package migrations embeds the entity store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
