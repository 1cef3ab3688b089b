// Package migrations embeds the SQL schema for every supported store backend.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql, named NNNNNN_name.{up,down}.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
