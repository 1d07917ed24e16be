// Package ai wires configured settings into concrete service adapters:
// the LLM provider, the embedding service, and the vector and metadata
// backends. Cloud backends with missing credentials fall back to their
// local counterparts with a warning; a missing LLM credential is fatal.
package ai

import (
	"fmt"

	openaiembed "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/llm/gemini"
	openaillm "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/llm/openai"
	filemeta "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/metadata/file"
	supabasemeta "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/metadata/supabase"
	localvec "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/vector/local"
	qdrantvec "github.com/nimbus-labs/kbase-cli/internal/adapters/driven/vector/qdrant"
	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// InitResult contains the wired service adapters.
type InitResult struct {
	LLMService       driven.LLMService
	EmbeddingService driven.EmbeddingService
	VectorStore      driven.VectorStore
	MetadataStore    driven.MetadataStore
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if a cloud backend fell back to local.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
	if r.MetadataStore != nil {
		r.MetadataStore.Close()
	}
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds every adapter from settings. It fails fast on LLM or
// embedding misconfiguration and falls back to local backends when
// cloud credentials are absent.
func Init(settings *domain.Settings) (*InitResult, error) {
	result := &InitResult{}

	llmSvc, err := CreateLLMService(&settings.Model)
	if err != nil {
		return nil, err
	}
	result.LLMService = llmSvc

	embedSvc, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.EmbeddingService = embedSvc

	vectorStore, warning, err := createVectorStore(settings, embedSvc)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = vectorStore
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
		result.FellBack = true
	}

	metadataStore, warning, err := createMetadataStore(settings)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.MetadataStore = metadataStore
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
		result.FellBack = true
	}

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result, nil
}

// CreateLLMService creates the chat service for the configured provider.
func CreateLLMService(settings *domain.ModelSettings) (driven.LLMService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q: %w",
			settings.Provider, domain.ErrMissingConfig)
	}
	if err := ValidateModel(settings.Provider, settings.Model); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
		})

	case domain.ProviderClaude:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
		})

	case domain.ProviderGemini:
		return geminillm.NewLLMService(geminillm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider %q: %w", settings.Provider, domain.ErrUnsupportedModel)
	}
}

// CreateEmbeddingService creates the embedding service. Embeddings always
// go through OpenAI regardless of the chat provider.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured for embeddings: %w", domain.ErrMissingConfig)
	}
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createVectorStore(settings *domain.Settings, embedder driven.EmbeddingService) (driven.VectorStore, string, error) {
	collection := settings.Vector.Collection
	if collection == "" {
		collection = "knowledge-base"
	}

	if settings.Vector.Backend == domain.VectorBackendQdrant {
		if settings.Vector.QdrantURL == "" {
			store, err := localvec.NewStore(settings.DataDir, collection, embedder)
			if err != nil {
				return nil, "", err
			}
			return store, "Qdrant URL not configured, using local vector index", nil
		}

		store, err := qdrantvec.NewStore(qdrantvec.Config{
			URL:        settings.Vector.QdrantURL,
			APIKey:     settings.Vector.QdrantAPIKey,
			Collection: collection,
		}, embedder)
		if err != nil {
			// Bad cloud config degrades to local, same as missing config.
			local, localErr := localvec.NewStore(settings.DataDir, collection, embedder)
			if localErr != nil {
				return nil, "", localErr
			}
			return local, fmt.Sprintf("Qdrant unavailable (%v), using local vector index", err), nil
		}
		return store, "", nil
	}

	store, err := localvec.NewStore(settings.DataDir, collection, embedder)
	if err != nil {
		return nil, "", err
	}
	return store, "", nil
}

func createMetadataStore(settings *domain.Settings) (driven.MetadataStore, string, error) {
	if settings.Metadata.Backend == domain.MetadataBackendSupabase {
		if settings.Metadata.SupabaseURL == "" || settings.Metadata.SupabaseAPIKey == "" {
			store, err := filemeta.NewStore(settings.DataDir)
			if err != nil {
				return nil, "", err
			}
			return store, "Supabase credentials not configured, using local metadata files", nil
		}

		store, err := supabasemeta.NewStore(supabasemeta.Config{
			URL:    settings.Metadata.SupabaseURL,
			APIKey: settings.Metadata.SupabaseAPIKey,
		})
		if err != nil {
			local, localErr := filemeta.NewStore(settings.DataDir)
			if localErr != nil {
				return nil, "", localErr
			}
			return local, fmt.Sprintf("Supabase unavailable (%v), using local metadata files", err), nil
		}
		return store, "", nil
	}

	store, err := filemeta.NewStore(settings.DataDir)
	if err != nil {
		return nil, "", err
	}
	return store, "", nil
}
