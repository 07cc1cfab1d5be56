// Package socioplus holds assets embedded into the binaries.
package socioplus

import "embed"

// EmailFS holds the html and plaintext email templates, one directory per
// template under templates/emails.
//
//go:embed templates/emails
var EmailFS embed.FS

// MigrationsFS holds the SQL schema migrations applied by golang-migrate.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
