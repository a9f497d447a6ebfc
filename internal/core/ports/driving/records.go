package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// ImportResult summarises a record import.
type ImportResult struct {
	Imported int
	ByType   map[domain.RecordType]int
}

// RecordService loads records into the record store.
type RecordService interface {
	// Import validates and saves records for the given owner.
	// Records lacking an owner are assigned ownerID; records lacking an ID get a new one.
	Import(ctx context.Context, ownerID string, records []domain.Record) (*ImportResult, error)
}
