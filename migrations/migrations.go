// Package migrations embeds the SQL migration files so the binary can apply
// them on startup without depending on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
