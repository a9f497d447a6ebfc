package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ErrMissingAPIKey is returned when a hosted provider has no key.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// ConfigValidator checks an LLM configuration by building the service and
// pinging it, and turns the failure into a hint the user can act on.
type ConfigValidator struct {
	timeout time.Duration
	create  func(*domain.LLMSettings) (driven.LLMService, error)
}

// NewConfigValidator creates a validator that waits up to five seconds for
// the provider to answer.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout, create: CreateLLMService}
}

// WithTimeout sets how long ValidateLLM waits for the ping.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	if d > 0 {
		v.timeout = d
	}
	return v
}

// ValidateLLM returns nil when no provider is selected. A rate-limited ping
// counts as valid, since the key and model were accepted.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
	if !config.IsConfigured() {
		return fmt.Errorf("%w for %s: set llm.api_key or SERCHA_LLM_API_KEY",
			ErrMissingAPIKey, config.Provider.Description())
	}

	svc, err := v.create(config)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	err = svc.Ping(ctx)
	logger.Debug("Validated %s (%s) in %s", config.Provider, svc.ModelName(), time.Since(start).Round(time.Millisecond))
	return explain(config, err)
}

// explain adds the likely fix to a ping failure.
func explain(config *domain.LLMSettings, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRateLimited):
		logger.Warn("%s is rate limiting requests; configuration accepted", config.Provider.Description())
		return nil
	case errors.Is(err, openaillm.ErrInvalidAPIKey), errors.Is(err, anthropicllm.ErrInvalidAPIKey):
		return fmt.Errorf("%w: check llm.api_key or SERCHA_LLM_API_KEY", err)
	case errors.Is(err, domain.ErrLLMUnavailable) && config.Provider.IsLocal():
		return fmt.Errorf("%w: is Ollama running at %s?", err, baseURLOrDefault(config))
	default:
		return err
	}
}

func baseURLOrDefault(config *domain.LLMSettings) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}
	return "http://localhost:11434"
}
