package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure QueryAnalyzer can receive a custom prompt store.
var _ driven.PromptStoreAware = (*QueryAnalyzer)(nil)

// Analyzer defaults.
const (
	DefaultAnalyzerTimeout = 10 * time.Second
	analysisTemperature    = 0.1
	analysisMaxTokens      = 512
)

// QueryAnalyzer turns a free-text query into a domain.QueryAnalysis using the
// configured LLM, falling back to lower-cased whitespace keywords whenever the
// LLM is missing, throttled, slow or returns something unusable.
// It is safe for concurrent use.
type QueryAnalyzer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	limiter *rate.Limiter
	cache   *lru.Cache[string, domain.QueryAnalysis]
	timeout time.Duration
}

// NewQueryAnalyzer creates a query analyzer. llm may be nil.
// A zero RatePerSecond disables throttling and a zero CacheSize disables caching.
func NewQueryAnalyzer(llm driven.LLMService, cfg domain.AnalyzerSettings) *QueryAnalyzer {
	a := &QueryAnalyzer{
		llm:     llm,
		timeout: cfg.Timeout,
	}
	if a.timeout <= 0 {
		a.timeout = DefaultAnalyzerTimeout
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	if cfg.CacheSize > 0 {
		a.cache, _ = lru.New[string, domain.QueryAnalysis](cfg.CacheSize)
	}
	return a
}

// SetPromptStore sets the prompt store for loading the analysis prompt.
func (a *QueryAnalyzer) SetPromptStore(store driven.PromptStore) {
	a.prompts = store
}

// Analyze produces the structured reading of query. It never fails: any
// problem with the LLM path yields the keyword fallback with FellBack set.
func (a *QueryAnalyzer) Analyze(ctx context.Context, query string, lang domain.Language) domain.AnalysisOutcome {
	logger.Section("Query Analysis")
	logger.Debug("Query: %q, language: %s", query, lang)

	if a.llm == nil {
		return a.fallback(query, lang, domain.ErrLLMUnavailable)
	}

	key := cacheKey(query, lang)
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			logger.Debug("Analysis cache hit")
			return domain.AnalysisOutcome{Analysis: cloneAnalysis(cached)}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.limiter != nil {
		if err := a.limiter.Wait(callCtx); err != nil {
			return a.fallback(query, lang, fmt.Errorf("%w: %w", domain.ErrRateLimited, err))
		}
	}

	start := time.Now()
	raw, err := a.llm.Chat(callCtx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: a.systemPrompt(lang)},
		{Role: driven.RoleUser, Content: query},
	}, driven.ChatOptions{
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return a.fallback(query, lang, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err))
	}
	logger.Debug("LLM (%s) responded in %s", a.llm.ModelName(), time.Since(start).Round(time.Millisecond))

	analysis, err := parseAnalysis(raw, lang)
	if err != nil {
		return a.fallback(query, lang, err)
	}

	if a.cache != nil {
		a.cache.Add(key, cloneAnalysis(analysis))
	}
	logger.Info("Intent: %s, keywords: %v", analysis.Intent, analysis.Keywords)
	return domain.AnalysisOutcome{Analysis: analysis}
}

// fallback builds the deterministic keyword analysis.
func (a *QueryAnalyzer) fallback(query string, lang domain.Language, reason error) domain.AnalysisOutcome {
	logger.Warn("Query analysis fell back to keywords: %v", reason)
	return domain.AnalysisOutcome{
		Analysis: FallbackAnalysis(query, lang),
		FellBack: true,
		Reason:   reason.Error(),
	}
}

// FallbackAnalysis splits the lower-cased query on single spaces.
// Runs of spaces yield empty keywords; they are kept as-is.
func FallbackAnalysis(query string, lang domain.Language) domain.QueryAnalysis {
	return domain.QueryAnalysis{
		Intent:    domain.FallbackIntent,
		Keywords:  strings.Split(strings.ToLower(query), " "),
		Entities:  map[string]any{},
		Sentiment: domain.NeutralSentiment,
		Language:  lang,
	}
}

func (a *QueryAnalyzer) systemPrompt(lang domain.Language) string {
	prompt := driven.DefaultQueryAnalysisPrompt
	if a.prompts != nil {
		if p, err := a.prompts.Load(driven.PromptQueryAnalysis); err == nil && strings.TrimSpace(p) != "" {
			prompt = p
		} else if err != nil {
			logger.Debug("Using default analysis prompt: %v", err)
		}
	}
	if lang == domain.LanguageFrench {
		prompt += "\nThe query is written in French. Keep keywords in French."
	}
	return prompt
}

// llmAnalysis is the JSON object the analysis prompt asks for.
type llmAnalysis struct {
	Intent     string         `json:"intent"`
	Keywords   []string       `json:"keywords"`
	Entities   map[string]any `json:"entities"`
	TimeRange  string         `json:"timeRange"`
	SnakeRange string         `json:"time_range"`
	Sentiment  string         `json:"sentiment"`
}

// parseAnalysis decodes and normalises an LLM response.
func parseAnalysis(raw string, lang domain.Language) (domain.QueryAnalysis, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return domain.QueryAnalysis{}, fmt.Errorf("%w: no JSON object in response", domain.ErrAnalysisFailed)
	}

	var parsed llmAnalysis
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return domain.QueryAnalysis{}, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
		}
		if err := json.Unmarshal([]byte(repairJSON(body)), &parsed); err != nil {
			return domain.QueryAnalysis{}, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
		}
	}

	keywords := make([]string, 0, len(parsed.Keywords))
	for _, kw := range parsed.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return domain.QueryAnalysis{}, fmt.Errorf("%w: no keywords", domain.ErrAnalysisFailed)
	}

	intent := strings.TrimSpace(parsed.Intent)
	if intent == "" {
		intent = domain.FallbackIntent
	}
	entities := parsed.Entities
	if entities == nil {
		entities = map[string]any{}
	}
	timeRange := parsed.TimeRange
	if timeRange == "" {
		timeRange = parsed.SnakeRange
	}

	return domain.QueryAnalysis{
		Intent:    intent,
		Keywords:  keywords,
		Entities:  entities,
		TimeRange: timeRange,
		Sentiment: parsed.Sentiment,
		Language:  lang,
	}, nil
}

func cacheKey(query string, lang domain.Language) string {
	return string(lang) + "\x00" + strings.ToLower(strings.TrimSpace(query))
}

// cloneAnalysis copies the slices and map so cached values are never shared.
func cloneAnalysis(a domain.QueryAnalysis) domain.QueryAnalysis {
	out := a
	out.Keywords = append([]string(nil), a.Keywords...)
	out.Entities = make(map[string]any, len(a.Entities))
	for k, v := range a.Entities {
		out.Entities[k] = v
	}
	return out
}
