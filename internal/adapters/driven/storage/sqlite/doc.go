// Package sqlite provides the SQL implementation of driven.RecordStore.
//
// The default driver is modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO. The same store runs on PostgreSQL through
// github.com/lib/pq when the store driver is set to "postgres"; queries are
// written with '?' placeholders and rebound to '$n' for that driver.
//
// # Schema
//
// One table per record type (documents, messages, billing_records,
// transcripts, work_items, contacts), each with id, owner_id and created_at
// plus type-specific text columns. The schema is managed through versioned
// migrations embedded from the migrations/ directory.
//
// # Data Location
//
// By default, the SQLite database is stored at ~/.sercha-federated/data/records.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. Source adapters query the store
// in parallel through the database/sql connection pool.
package sqlite
