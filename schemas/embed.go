// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL migrations of the knowledge base.
//
//go:embed migrations/*.sql
var Migrations embed.FS
