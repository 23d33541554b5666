// Package sqlite provides a SQLite-backed driven.CredentialStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. The token record lives in a single-row credentials table; Save replaces
// the row and Clear deletes it.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.tramtid/credentials.db
package sqlite
