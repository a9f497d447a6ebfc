package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const healthyStatus = "healthy"

// SearchService runs federated searches and assembles the response.
type SearchService struct {
	coordinator  *Coordinator
	ranker       *Ranker
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewSearchService creates a new search service.
func NewSearchService(coordinator *Coordinator, cfg domain.SearchSettings) *SearchService {
	s := &SearchService{
		coordinator:  coordinator,
		ranker:       NewRanker(),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		now:          time.Now,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = domain.DefaultLimit
	}
	if s.maxLimit <= 0 {
		s.maxLimit = domain.DefaultMaxLimit
	}
	return s
}

// Search runs the full pipeline: analyse, fan out, score, rank, truncate,
// highlight and suggest.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (resp *domain.SearchResponse, err error) {
	requestID := uuid.NewString()
	logger.Section("Search Execution")
	logger.Debug("Request %s: query=%q owner=%s limit=%d offset=%d", requestID, req.Query, req.OwnerID, req.Limit, req.Offset)

	req, err = s.normalise(req)
	if err != nil {
		logger.Debug("Request %s rejected: %v", requestID, err)
		return domain.DegradedResponse(req.Query, err), err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrSearchFailed, r)
			logger.Error("Request %s: %v", requestID, err)
			resp = domain.DegradedResponse(req.Query, err)
		}
	}()

	start := s.now()
	fed := s.coordinator.FederatedSearch(ctx, FederatedQuery{
		OwnerID:  req.OwnerID,
		Query:    req.Query,
		Language: req.Language,
		Filters:  req.Filters,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", domain.ErrSearchFailed, ctxErr)
		logger.Warn("Request %s: %v", requestID, err)
		return domain.DegradedResponse(req.Query, err), err
	}

	analysis := fed.Outcome.Analysis
	results := fed.Results
	ScoreAll(results, analysis)
	s.ranker.Rank(results)

	total := len(results)
	page := results[:min(req.Limit, total)]
	HighlightAll(page, analysis.Keywords)
	suggestions := Suggest(req.Query, page, req.Language)

	elapsed := s.now().Sub(start).Milliseconds()
	logger.Info("Request %s: %d of %d results in %dms (fallback=%t)",
		requestID, len(page), total, elapsed, fed.Outcome.FellBack)

	return &domain.SearchResponse{
		Query:        req.Query,
		Results:      page,
		TotalCount:   total,
		SearchTimeMs: elapsed,
		Suggestions:  suggestions,
	}, nil
}

// Health reports liveness.
func (s *SearchService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{
		Status:    healthyStatus,
		Timestamp: s.now().UTC(),
	}
}

// RecordTypes lists the searchable record types in fan-out order.
func (s *SearchService) RecordTypes() []domain.RecordTypeInfo {
	infos := make([]domain.RecordTypeInfo, 0, len(descriptors))
	for _, d := range descriptors {
		infos = append(infos, domain.RecordTypeInfo{
			Type:         d.Type,
			Description:  d.Type.Description(),
			SearchFields: append([]string(nil), d.SearchFields...),
			Columns:      append([]string(nil), d.Columns...),
		})
	}
	return infos
}

// normalise validates req and applies defaults.
func (s *SearchService) normalise(req domain.SearchRequest) (domain.SearchRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	req.OwnerID = strings.TrimSpace(req.OwnerID)

	if req.Query == "" {
		return req, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if req.OwnerID == "" {
		return req, fmt.Errorf("%w: ownerId is required", domain.ErrInvalidInput)
	}
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if !req.Language.IsValid() {
		return req, fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, req.Language)
	}
	if req.Limit < 0 {
		return req, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	if req.Offset < 0 {
		return req, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidInput)
	}
	if req.Limit == 0 {
		req.Limit = s.defaultLimit
	}
	if req.Limit > s.maxLimit {
		req.Limit = s.maxLimit
	}
	for _, t := range req.Filters.Types {
		if !t.IsValid() {
			return req, fmt.Errorf("%w: %w: %q", domain.ErrInvalidInput, domain.ErrUnsupportedType, t)
		}
	}
	if a, b := req.Filters.CreatedAfter, req.Filters.CreatedBefore; a != nil && b != nil && a.After(*b) {
		return req, fmt.Errorf("%w: createdAfter is later than createdBefore", domain.ErrInvalidInput)
	}
	return req, nil
}
