// Package migrations holds the versioned schema as embedded goose SQL files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
