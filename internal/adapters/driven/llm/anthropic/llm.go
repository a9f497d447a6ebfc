// Package anthropic provides an LLM service adapter using Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
	maxResponseBody  = 1 << 20

	// statusOverloaded is returned when the API is temporarily over capacity.
	statusOverloaded = 529
)

// ErrInvalidAPIKey is returned when the API rejects the configured key.
var ErrInvalidAPIKey = errors.New("anthropic: invalid API key")

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-haiku-latest).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Anthropic API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	StopSeqs    []string          `json:"stop_sequences,omitempty"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// apiError is the error envelope of every non-2xx reply.
type apiError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Chat conducts a multi-turn conversation. System messages are lifted into
// the top-level system field. The API has no JSON mode, so JSONMode
// prefills the assistant turn with "{" and prepends it to the reply.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := s.newRequest(opts.MaxTokens, opts.Temperature)
	req.StopSeqs = opts.Stop

	var system []string
	for _, m := range messages {
		if m.Role == driven.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, messagesMessage{Role: m.Role, Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")

	prefill := ""
	if opts.JSONMode {
		prefill = "{"
		req.Messages = append(req.Messages, messagesMessage{Role: driven.RoleAssistant, Content: prefill})
	}
	return s.send(ctx, req, prefill)
}

func (s *LLMService) newRequest(maxTokens int, temperature float64) messagesRequest {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return messagesRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: max(temperature, 0),
	}
}

// send posts one messages request and joins the text blocks of the reply.
func (s *LLMService) send(ctx context.Context, reqBody messagesRequest, prefill string) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	var resp messagesResponse
	if err := s.do(ctx, http.MethodPost, "/v1/messages", bytes.NewReader(payload), &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: no response content returned")
	}

	logger.Debug("anthropic %s: %d input + %d output tokens, stop=%s",
		s.model, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
	if resp.StopReason == "max_tokens" {
		logger.Warn("anthropic %s: reply hit max_tokens and may be truncated", s.model)
	}

	var out strings.Builder
	out.WriteString(prefill)
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

// do sends an authenticated request and decodes a 200 reply into out.
func (s *LLMService) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: anthropic: %w", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("anthropic: decode response: %w", err)
	}
	return nil
}

// statusError maps a non-200 reply onto the domain failure it represents.
func statusError(status int, raw []byte) error {
	msg := strings.TrimSpace(string(raw))
	var env apiError
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		msg = env.Error.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: anthropic: %s", domain.ErrRateLimited, msg)
	case status == statusOverloaded || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: anthropic (status %d): %s", domain.ErrLLMUnavailable, status, msg)
	default:
		return fmt.Errorf("anthropic error (status %d): %s", status, msg)
	}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping retrieves the configured model, which checks the key and the model
// name without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.do(ctx, http.MethodGet, "/v1/models/"+url.PathEscape(s.model), nil, nil); err != nil {
		return fmt.Errorf("anthropic: ping %s: %w", s.model, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
