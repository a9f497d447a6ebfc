package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SearchService provides federated search to external actors.
type SearchService interface {
	// Search runs a federated search across every record type.
	// The response is never nil. A validation failure returns an error
	// wrapping domain.ErrInvalidInput; an unexpected failure returns the
	// degraded response with an error wrapping domain.ErrSearchFailed.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)

	// Health reports liveness without doing any search work.
	Health(ctx context.Context) domain.HealthStatus

	// RecordTypes lists the searchable record types in fan-out order.
	RecordTypes() []domain.RecordTypeInfo
}
