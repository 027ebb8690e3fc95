package driven

import "context"

// EmbeddingService turns chunk and query text into vectors. The core never
// calls it directly; the embedding gateway adds batching, timeouts and shape
// checks on top.
//
// Adapters:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Gemini (gemini-embedding-001)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates one embedding per input text, in input order,
	// in a single upstream call where the provider allows it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the configured vector size; the index is built with it.
	Dimensions() int

	ModelName() string

	// Ping makes the cheapest authenticated request the provider offers.
	Ping(ctx context.Context) error

	Close() error
}
