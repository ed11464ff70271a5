package auth

import "embed"

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS exposes the embedded schema migrations for the users table
// so host applications can apply them with their own migration runner.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
