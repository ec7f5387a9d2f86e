// Package migrations embeds the response log schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
