package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// RecordQuery is an owner-scoped substring query against one record table.
// A row matches when any Field contains any Term, ignoring case.
type RecordQuery struct {
	// Table is the backing table, e.g. "billing_records".
	Table string

	// Type is the record type stamped on returned rows.
	Type domain.RecordType

	// OwnerID restricts rows to a single owner. Required.
	OwnerID string

	// Fields are the columns searched for Terms.
	Fields []string

	// Columns are the columns returned in Record.Fields.
	Columns []string

	// Terms are the lower-cased substrings to match.
	Terms []string

	// CreatedAfter and CreatedBefore bound created_at when set.
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Limit and Offset page the newest-first ordering. Limit 0 means no limit.
	Limit  int
	Offset int
}

// RecordStore reads and writes owner-scoped records.
// Implementations must be safe for concurrent use; source adapters query
// the store in parallel.
type RecordStore interface {
	// Search returns rows matching the query, newest first.
	Search(ctx context.Context, q RecordQuery) ([]domain.Record, error)

	// Save inserts or replaces records.
	Save(ctx context.Context, records []domain.Record) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
