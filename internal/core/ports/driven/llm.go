package driven

import "context"

// CompletionService produces chat completions.
// The core uses it twice per query: once to rewrite follow-ups into
// standalone questions and once to answer from retrieved context.
//
// Implementations include:
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Gemini
//   - Ollama (local models)
type CompletionService interface {
	// Complete sends the ordered messages and returns the model's reply text.
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat roles understood by every CompletionService.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// CompletionOptions configures a completion call.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
