// Package db opens the local SQLite database shared by the OTP store and the
// audit log, and applies the embedded schema migrations.
//
// The database is a single file (by default ~/.local/share/hexalock/hexalock.db).
// Migrations live in migrations/ and are managed by goose; opening a database
// always brings it up to the latest version.
package db
