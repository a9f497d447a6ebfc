package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// AIConfigValidator validates LLM provider configurations by testing
// connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateLLM pings the configured provider. It returns nil when no
	// provider is selected.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
