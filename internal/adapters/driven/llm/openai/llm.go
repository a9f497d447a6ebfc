// Package openai provides an LLM service adapter using OpenAI API.
package openai

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
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 30 * time.Second
)

const maxResponseBody = 1 << 20

// ErrInvalidAPIKey is returned when the API rejects the configured key.
var ErrInvalidAPIKey = errors.New("openai: invalid API key")

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// LLMService provides LLM operations using OpenAI API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	Stop           []string            `json:"stop,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

// responseFormat constrains the completion to a JSON object.
type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// apiError is the error envelope of every non-2xx reply.
type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Chat conducts a multi-turn conversation. JSONMode maps to
// response_format=json_object.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := s.newRequest(messages, opts.MaxTokens, opts.Temperature)
	req.Stop = opts.Stop
	if opts.JSONMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return s.complete(ctx, req)
}

func (s *LLMService) newRequest(messages []driven.ChatMessage, maxTokens int, temperature float64) chatCompletionRequest {
	msgs := make([]chatCompletionMsg, len(messages))
	for i, m := range messages {
		msgs[i] = chatCompletionMsg{Role: m.Role, Content: m.Content}
	}
	return chatCompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   max(maxTokens, 0),
		Temperature: max(temperature, 0),
	}
}

// complete posts one chat completion and returns the first choice.
func (s *LLMService) complete(ctx context.Context, reqBody chatCompletionRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	var resp chatCompletionResponse
	if err := s.do(ctx, http.MethodPost, "/chat/completions", bytes.NewReader(payload), &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	choice := resp.Choices[0]
	logger.Debug("openai %s: %d prompt + %d completion tokens, finish=%s",
		s.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, choice.FinishReason)
	if choice.FinishReason == "length" {
		logger.Warn("openai %s: completion hit max_tokens and may be truncated", s.model)
	}
	return choice.Message.Content, nil
}

// do sends an authenticated request and decodes a 200 reply into out.
func (s *LLMService) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: openai: %w", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
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
		return fmt.Errorf("%w: openai: %s", domain.ErrRateLimited, msg)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: openai (status %d): %s", domain.ErrLLMUnavailable, status, msg)
	default:
		return fmt.Errorf("openai error (status %d): %s", status, msg)
	}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping retrieves the configured model, which checks the key and that the
// account can use the model without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.do(ctx, http.MethodGet, "/models/"+url.PathEscape(s.model), nil, nil); err != nil {
		return fmt.Errorf("openai: ping %s: %w", s.model, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
