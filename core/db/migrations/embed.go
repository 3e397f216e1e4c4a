package migrations

import "embed"

// FS holds the goose migrations so binaries can migrate without the source tree.
//
//go:embed *.sql
var FS embed.FS
