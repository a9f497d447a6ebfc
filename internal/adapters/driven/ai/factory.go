// Package ai builds the LLM service used for query analysis from settings
// and checks that it answers before the analyzer relies on it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check.
const pingTimeout = 5 * time.Second

// constructor builds an LLM service for one provider.
type constructor func(*domain.LLMSettings) (driven.LLMService, error)

var constructors = map[domain.AIProvider]constructor{
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return openaillm.NewLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return anthropicllm.NewLLMService(anthropicllm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
}

// InitResult is the outcome of Init. When FellBack is set the analyzer
// runs without an LLM and Warnings says why.
type InitResult struct {
	LLMService driven.LLMService
	Warnings   []string
	FellBack   bool
}

// Close releases the LLM service, if any.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Init builds and pings the configured LLM. An unset provider falls back
// silently. A misconfigured or unreachable one falls back with a warning,
// since keyword analysis still answers every query. A provider that is
// only rate limiting is kept.
func Init(ctx context.Context, settings *domain.LLMSettings) *InitResult {
	if settings == nil || settings.Provider == "" {
		return &InitResult{FellBack: true}
	}
	if !settings.IsConfigured() {
		return &InitResult{
			FellBack: true,
			Warnings: []string{fmt.Sprintf("LLM provider %s is not fully configured", settings.Provider)},
		}
	}

	svc, err := CreateAndValidateLLMService(ctx, settings)
	if errors.Is(err, domain.ErrRateLimited) && svc != nil {
		return &InitResult{LLMService: svc, Warnings: []string{err.Error()}}
	}
	if err != nil {
		return &InitResult{FellBack: true, Warnings: []string{err.Error()}}
	}
	return &InitResult{LLMService: svc}
}

// CreateAndValidateLLMService builds the service and pings it. On a rate
// limited ping it returns the service together with the error; on any
// other failure the service is closed and nil.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check llm settings in config.toml", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err = svc.Ping(ctx)
	switch {
	case err == nil:
		return svc, nil
	case errors.Is(err, domain.ErrRateLimited):
		return svc, err
	default:
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check llm settings in config.toml",
			domain.ErrLLMUnavailable, settings.Provider, err)
	}
}

// CreateLLMService builds the service for settings.Provider without any
// network call. It returns nil when the provider is not fully configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	build, ok := constructors[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	return build(settings)
}
