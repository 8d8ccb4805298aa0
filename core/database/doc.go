// Package database provides the GORM connection bootstrap and schema
// inspection helpers for the label repository.
//
// MySQL is the production driver. SQLite is supported for local runs and for
// tests, which open in-memory databases through the same Connect path.
//
// The inspector helpers (GetTableColumns, GetTableRowCount) are dialect-aware
// and back the `inspect` command's post-ingestion summary.
package database
