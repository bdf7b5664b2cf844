package llm

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a provider that cannot be reached at the
// transport level. API-level failures (bad request, rate limit) are
// reported as plain errors.
var ErrUnavailable = errors.New("llm provider unavailable")

// Provider defines the interface for generative-model backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one model call
type CompletionRequest struct {
	// System sets the model's role (optional)
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling (0 = use configured default)
	Temperature float32
}

// CompletionResponse contains the model's output
type CompletionResponse struct {
	// Text is the generated response text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama, proxies)
	BaseURL string

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Timeout for API requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		MaxTokens:   600,
		Temperature: 0.2,
		Timeout:     30 * time.Second,
	}
}
