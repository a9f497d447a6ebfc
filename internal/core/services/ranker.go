package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Ranking weights.
const (
	relevanceWeight = 0.7
	recencyWeight   = 0.3
)

// Rank orders results by blended relevance and recency, best first.
// Ties keep their merge order.
//
// The recency term is createdAt/now in epoch milliseconds, so it sits close
// to 1 for any record from recent decades and barely separates results.
func Rank(results []domain.SearchResult, now time.Time) {
	nowMs := float64(now.UnixMilli())
	keys := make([]float64, len(results))
	for i := range results {
		keys[i] = blendedScore(&results[i], nowMs)
	}

	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] > keys[idx[b]]
	})

	sorted := make([]domain.SearchResult, len(results))
	for i, j := range idx {
		sorted[i] = results[j]
	}
	copy(results, sorted)
}

func blendedScore(r *domain.SearchResult, nowMs float64) float64 {
	recency := 0.0
	if nowMs != 0 {
		recency = float64(r.CreatedAt.UnixMilli()) / nowMs
	}
	return r.ConfidenceScore*relevanceWeight + recency*recencyWeight
}

// Ranker ranks with an injectable clock.
type Ranker struct {
	now func() time.Time
}

// NewRanker creates a ranker using the wall clock.
func NewRanker() *Ranker {
	return &Ranker{now: time.Now}
}

// Rank orders results in place using the ranker's clock.
func (r *Ranker) Rank(results []domain.SearchResult) {
	Rank(results, r.now())
}
