package driven

import "context"

// LLMService wraps a hosted chat-completion API behind a uniform interface.
//
// Implementations:
//   - OpenAI (chat completions)
//   - Anthropic Claude (messages)
//   - Google Gemini (generateContent)
//
// Selection is by configuration, resolved once at startup. Constructing a
// service with an unsupported provider/model pair fails immediately with a
// configuration error.
type LLMService interface {
	// Generate produces a completion for the prompt. Rate-limited
	// responses are retried with bounded exponential backoff before
	// surfacing domain.ErrRateLimited.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorStore, which stores and searches
// vectors. EmbeddingService generates them.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536).
	// This must match the vector store's index configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
