package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// RecordService imports records into the record store.
type RecordService struct {
	store driven.RecordStore
	now   func() time.Time
}

// NewRecordService creates a new record service.
func NewRecordService(store driven.RecordStore) *RecordService {
	return &RecordService{store: store, now: time.Now}
}

// Import validates records, fills in missing owner, ID and creation time,
// and saves them in one call. Nothing is saved if any record is invalid.
func (s *RecordService) Import(ctx context.Context, ownerID string, records []domain.Record) (*driving.ImportResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	result := &driving.ImportResult{ByType: make(map[domain.RecordType]int)}
	if len(records) == 0 {
		return result, nil
	}

	prepared := make([]domain.Record, 0, len(records))
	for i, rec := range records {
		if !rec.Type.IsValid() {
			return nil, fmt.Errorf("record %d: %w: %q", i, domain.ErrUnsupportedType, rec.Type)
		}
		if rec.OwnerID == "" {
			rec.OwnerID = ownerID
		}
		if rec.OwnerID == "" {
			return nil, fmt.Errorf("record %d: %w: owner is required", i, domain.ErrInvalidInput)
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.now().UTC()
		}
		prepared = append(prepared, rec)
		result.ByType[rec.Type]++
	}

	if err := s.store.Save(ctx, prepared); err != nil {
		return nil, fmt.Errorf("save records: %w", err)
	}
	result.Imported = len(prepared)

	logger.Info("Imported %d records", result.Imported)
	for _, t := range domain.AllRecordTypes() {
		if n := result.ByType[t]; n > 0 {
			logger.Debug("  %-15s %d", t, n)
		}
	}
	return result, nil
}
