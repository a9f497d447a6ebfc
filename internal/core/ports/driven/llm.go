package driven

import "context"

// LLMService is the language model the query analyzer asks for keywords
// and intent. It is optional: without one, analysis falls back to keyword
// splitting. Ollama, OpenAI and Anthropic implement it.
type LLMService interface {
	// Chat sends the conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// Stop lists sequences that end generation.
	Stop []string

	// JSONMode asks the provider to constrain output to a JSON object
	// where the provider supports it. Callers must still validate the output.
	JSONMode bool
}
