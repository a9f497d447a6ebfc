package services

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// SourceAdapter searches one record type in the record store.
type SourceAdapter struct {
	store driven.RecordStore
	desc  SourceDescriptor
}

// NewSourceAdapter creates an adapter for the given descriptor.
func NewSourceAdapter(store driven.RecordStore, desc SourceDescriptor) *SourceAdapter {
	return &SourceAdapter{store: store, desc: desc}
}

// NewSourceAdapters creates one adapter per record type in fan-out order.
func NewSourceAdapters(store driven.RecordStore) []*SourceAdapter {
	adapters := make([]*SourceAdapter, 0, len(descriptors))
	for _, d := range descriptors {
		adapters = append(adapters, NewSourceAdapter(store, d))
	}
	return adapters
}

// Type returns the record type this adapter serves.
func (a *SourceAdapter) Type() domain.RecordType {
	return a.desc.Type
}

// Search returns the owner's records whose searchable fields contain any keyword.
// The returned slice is never nil. A store failure is logged and yields an
// empty slice; the error is only diagnostic. The coordinator records it in
// SourceStat and never passes it on to the search response.
func (a *SourceAdapter) Search(
	ctx context.Context,
	ownerID string,
	analysis domain.QueryAnalysis,
	filters domain.SearchFilters,
	limit, offset int,
) ([]domain.SearchResult, error) {
	if !filters.Includes(a.desc.Type) || len(analysis.Keywords) == 0 {
		return []domain.SearchResult{}, nil
	}

	rows, err := a.store.Search(ctx, driven.RecordQuery{
		Table:         a.desc.Table,
		Type:          a.desc.Type,
		OwnerID:       ownerID,
		Fields:        a.desc.SearchFields,
		Columns:       a.desc.Columns,
		Terms:         analysis.Keywords,
		CreatedAfter:  filters.CreatedAfter,
		CreatedBefore: filters.CreatedBefore,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		logger.Warn("Search %s failed: %v", a.desc.Type, err)
		return []domain.SearchResult{}, err
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		if row.OwnerID != "" && row.OwnerID != ownerID {
			continue
		}
		row.Type = a.desc.Type
		results = append(results, a.desc.toResult(row))
	}
	return results, nil
}
