package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// FederatedQuery is the input to one fan-out.
type FederatedQuery struct {
	OwnerID  string
	Query    string
	Language domain.Language
	Filters  domain.SearchFilters
	Limit    int
	Offset   int
}

// SourceStat records how one adapter fared during a fan-out.
type SourceStat struct {
	Type  domain.RecordType
	Count int
	Err   error
	Took  time.Duration
}

// FederatedResult is the merged output of a fan-out.
type FederatedResult struct {
	Outcome domain.AnalysisOutcome
	Results []domain.SearchResult
	Sources []SourceStat
}

// Coordinator analyses a query once and runs every source adapter in parallel.
type Coordinator struct {
	analyzer       *QueryAnalyzer
	adapters       []*SourceAdapter
	adapterTimeout time.Duration
}

// NewCoordinator creates a coordinator. A zero adapterTimeout leaves adapters
// bounded only by the request context.
func NewCoordinator(analyzer *QueryAnalyzer, adapters []*SourceAdapter, adapterTimeout time.Duration) *Coordinator {
	return &Coordinator{
		analyzer:       analyzer,
		adapters:       adapters,
		adapterTimeout: adapterTimeout,
	}
}

// FederatedSearch analyses the query and merges results from all adapters in
// adapter order. A failing or timed-out adapter contributes nothing; the
// others are unaffected.
func (c *Coordinator) FederatedSearch(ctx context.Context, q FederatedQuery) FederatedResult {
	outcome := c.analyzer.Analyze(ctx, q.Query, q.Language)

	slots := make([][]domain.SearchResult, len(c.adapters))
	stats := make([]SourceStat, len(c.adapters))

	var g errgroup.Group
	for i, adapter := range c.adapters {
		g.Go(func() error {
			stats[i] = c.runAdapter(ctx, adapter, q, outcome.Analysis, &slots[i])
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	merged := make([]domain.SearchResult, 0, total)
	for _, s := range slots {
		merged = append(merged, s...)
	}

	for _, st := range stats {
		if st.Err != nil {
			logger.Debug("  %-15s failed after %s: %v", st.Type, st.Took.Round(time.Millisecond), st.Err)
			continue
		}
		logger.Debug("  %-15s %d results in %s", st.Type, st.Count, st.Took.Round(time.Millisecond))
	}

	return FederatedResult{
		Outcome: outcome,
		Results: merged,
		Sources: stats,
	}
}

// runAdapter executes one adapter, converting panics into errors.
func (c *Coordinator) runAdapter(
	ctx context.Context,
	adapter *SourceAdapter,
	q FederatedQuery,
	analysis domain.QueryAnalysis,
	slot *[]domain.SearchResult,
) (stat SourceStat) {
	start := time.Now()
	stat.Type = adapter.Type()

	defer func() {
		if r := recover(); r != nil {
			stat.Err = fmt.Errorf("adapter %s panicked: %v", adapter.Type(), r)
			logger.Warn("%v", stat.Err)
			*slot = nil
		}
		stat.Took = time.Since(start)
	}()

	if c.adapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.adapterTimeout)
		defer cancel()
	}

	results, err := adapter.Search(ctx, q.OwnerID, analysis, q.Filters, q.Limit, q.Offset)
	if err != nil {
		stat.Err = err
		return stat
	}
	*slot = results
	stat.Count = len(results)
	return stat
}
