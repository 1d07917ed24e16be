package domain

// Provider identifies a hosted chat-completion API.
type Provider string

// Available model providers.
const (
	// ProviderOpenAI is the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"

	// ProviderClaude is the Anthropic messages API.
	ProviderClaude Provider = "claude"

	// ProviderGemini is the Google Gemini generateContent API.
	ProviderGemini Provider = "gemini"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// VectorBackend selects the vector store implementation.
type VectorBackend string

// Available vector store backends.
const (
	// VectorBackendLocal is the persistent embedded cosine index.
	VectorBackendLocal VectorBackend = "local"

	// VectorBackendQdrant is the managed Qdrant index.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// MetadataBackend selects the metadata store implementation.
type MetadataBackend string

// Available metadata store backends.
const (
	// MetadataBackendFile is the local flat-file JSON store.
	MetadataBackendFile MetadataBackend = "file"

	// MetadataBackendSupabase is the cloud structured store.
	MetadataBackendSupabase MetadataBackend = "supabase"
)

// ModelSettings holds model provider configuration, resolved once at startup.
type ModelSettings struct {
	// Provider is the chat API to use.
	Provider Provider

	// Model is the model name within the provider.
	Model string

	// Temperature controls generation randomness.
	Temperature float64

	// APIKey is the provider credential (required).
	APIKey string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// APIKey is the provider credential.
	APIKey string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// VectorSettings holds vector store configuration.
type VectorSettings struct {
	Backend VectorBackend

	// Collection is the index/collection name.
	Collection string

	// QdrantURL and QdrantAPIKey configure the managed backend.
	QdrantURL    string
	QdrantAPIKey string
}

// MetadataSettings holds metadata store configuration.
type MetadataSettings struct {
	Backend MetadataBackend

	// SupabaseURL and SupabaseAPIKey configure the cloud backend.
	SupabaseURL    string
	SupabaseAPIKey string
}

// Settings is the complete application configuration.
type Settings struct {
	Model     ModelSettings
	Embedding EmbeddingSettings
	Vector    VectorSettings
	Metadata  MetadataSettings

	// DataDir is the root for local persisted state (flat files,
	// embedded index, temp upload copies).
	DataDir string
}
