// Package sqlite persists the storefront session in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation, so
// the CLI cross-compiles without CGO. The database holds a single auth_state
// table keyed by namespace. The session lives under "persist:auth" as a JSON
// object with "access" and "refresh" string fields.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. Each
// migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.storefront/data/auth.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite locking in WAL
// mode.
package sqlite
