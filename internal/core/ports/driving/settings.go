package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider used for query analysis.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig(ctx context.Context) error
}
