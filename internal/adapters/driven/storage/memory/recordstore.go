package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Matching follows the SQL store: a column that was never set behaves like NULL
// and matches no term.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.RecordType]map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[domain.RecordType]map[string]domain.Record),
	}
}

// Save stores or replaces records keyed by type and ID. Like the SQL store it
// saves all records or none, and refuses to move an ID to another owner.
func (s *RecordStore) Save(_ context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if !rec.Type.IsValid() {
			return domain.ErrUnsupportedType
		}
		if prev, ok := s.records[rec.Type][rec.ID]; ok && prev.OwnerID != rec.OwnerID {
			return fmt.Errorf("saving %s %s: %w", rec.Type, rec.ID, domain.ErrOwnerConflict)
		}
	}
	for _, rec := range records {
		byID, ok := s.records[rec.Type]
		if !ok {
			byID = make(map[string]domain.Record)
			s.records[rec.Type] = byID
		}
		byID[rec.ID] = copyRecord(rec)
	}
	return nil
}

// Search returns owner-scoped records where any field contains any term, newest first.
func (s *RecordStore) Search(ctx context.Context, q driven.RecordQuery) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.Terms) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	var matched []domain.Record
	for _, rec := range s.records[q.Type] {
		if rec.OwnerID != q.OwnerID {
			continue
		}
		if q.CreatedAfter != nil && rec.CreatedAt.Before(*q.CreatedAfter) {
			continue
		}
		if q.CreatedBefore != nil && rec.CreatedAt.After(*q.CreatedBefore) {
			continue
		}
		if !matchesAny(rec, q.Fields, q.Terms) {
			continue
		}
		matched = append(matched, project(rec, q.Columns))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if q.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Ping always succeeds.
func (s *RecordStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *RecordStore) Close() error {
	return nil
}

// Count returns the number of stored records of the given type.
func (s *RecordStore) Count(t domain.RecordType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[t])
}

func matchesAny(rec domain.Record, fields, terms []string) bool {
	for _, f := range fields {
		val, ok := rec.Fields[f]
		if !ok {
			continue
		}
		lower := strings.ToLower(val)
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

func project(rec domain.Record, columns []string) domain.Record {
	out := rec
	out.Fields = make(map[string]string, len(columns))
	for _, c := range columns {
		if v, ok := rec.Fields[c]; ok {
			out.Fields[c] = v
		}
	}
	return out
}

func copyRecord(rec domain.Record) domain.Record {
	out := rec
	out.Fields = make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		out.Fields[k] = v
	}
	return out
}
