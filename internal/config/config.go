// Package config resolves application settings from three layers, lowest
// precedence first: built-in defaults, an optional TOML file at
// <config dir>/config.toml, and environment variables (a .env file in the
// working directory is loaded first when present).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Environment variable names.
const (
	EnvModelProvider    = "KBASE_MODEL_PROVIDER"
	EnvModelName        = "KBASE_MODEL_NAME"
	EnvModelTemperature = "KBASE_MODEL_TEMPERATURE"
	EnvEmbeddingModel   = "KBASE_EMBEDDING_MODEL"
	EnvVectorBackend    = "KBASE_VECTOR_BACKEND"
	EnvMetadataBackend  = "KBASE_METADATA_BACKEND"
	EnvCollection       = "KBASE_COLLECTION"
	EnvDataDir          = "KBASE_DATA_DIR"

	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"

	EnvQdrantURL      = "QDRANT_URL"
	EnvQdrantAPIKey   = "QDRANT_API_KEY"
	EnvSupabaseURL    = "SUPABASE_URL"
	EnvSupabaseAPIKey = "SUPABASE_API_KEY"
)

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultProvider   = domain.ProviderOpenAI
	DefaultModel      = "gpt-3.5-turbo"
	DefaultCollection = "knowledge-base"
)

// fileConfig mirrors the optional config.toml layout.
type fileConfig struct {
	DataDir string `toml:"data_dir"`

	Model struct {
		Provider    string  `toml:"provider"`
		Name        string  `toml:"name"`
		Temperature float64 `toml:"temperature"`
	} `toml:"model"`

	Embedding struct {
		Model string `toml:"model"`
	} `toml:"embedding"`

	Vector struct {
		Backend    string `toml:"backend"`
		Collection string `toml:"collection"`
	} `toml:"vector"`

	Metadata struct {
		Backend string `toml:"backend"`
	} `toml:"metadata"`
}

// Load resolves settings. configDir defaults to ~/.kbase; a missing
// config.toml is not an error.
func Load(configDir string) (*domain.Settings, error) {
	// Best effort: a missing .env is the common case.
	_ = godotenv.Load()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configDir = filepath.Join(home, ".kbase")
	}

	var fc fileConfig
	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		logger.Debug("Loaded config file %s", path)
	}

	settings := &domain.Settings{}

	provider := domain.Provider(envOr(EnvModelProvider, firstNonEmpty(fc.Model.Provider, DefaultProvider.String())))
	if !provider.IsValid() {
		return nil, fmt.Errorf("unknown model provider %q: %w", provider, domain.ErrMissingConfig)
	}
	settings.Model = domain.ModelSettings{
		Provider:    provider,
		Model:       envOr(EnvModelName, firstNonEmpty(fc.Model.Name, defaultModelFor(provider))),
		Temperature: envFloatOr(EnvModelTemperature, fc.Model.Temperature),
		APIKey:      apiKeyFor(provider),
	}

	settings.Embedding = domain.EmbeddingSettings{
		Model:  envOr(EnvEmbeddingModel, fc.Embedding.Model),
		APIKey: os.Getenv(EnvOpenAIKey),
	}

	settings.Vector = domain.VectorSettings{
		Backend:      domain.VectorBackend(envOr(EnvVectorBackend, firstNonEmpty(fc.Vector.Backend, string(domain.VectorBackendLocal)))),
		Collection:   envOr(EnvCollection, firstNonEmpty(fc.Vector.Collection, DefaultCollection)),
		QdrantURL:    os.Getenv(EnvQdrantURL),
		QdrantAPIKey: os.Getenv(EnvQdrantAPIKey),
	}

	settings.Metadata = domain.MetadataSettings{
		Backend:        domain.MetadataBackend(envOr(EnvMetadataBackend, firstNonEmpty(fc.Metadata.Backend, string(domain.MetadataBackendFile)))),
		SupabaseURL:    os.Getenv(EnvSupabaseURL),
		SupabaseAPIKey: os.Getenv(EnvSupabaseAPIKey),
	}

	settings.DataDir = envOr(EnvDataDir, fc.DataDir)
	if settings.DataDir == "" {
		settings.DataDir = filepath.Join(configDir, "data")
	}

	return settings, nil
}

// defaultModelFor returns the conventional model for a provider when no
// explicit model is configured.
func defaultModelFor(provider domain.Provider) string {
	switch provider {
	case domain.ProviderClaude:
		return "claude-3-sonnet"
	case domain.ProviderGemini:
		return "gemini-pro"
	default:
		return DefaultModel
	}
}

// apiKeyFor maps a provider to its credential variable.
func apiKeyFor(provider domain.Provider) string {
	switch provider {
	case domain.ProviderClaude:
		return os.Getenv(EnvAnthropicKey)
	case domain.ProviderGemini:
		return os.Getenv(EnvGoogleKey)
	default:
		return os.Getenv(EnvOpenAIKey)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("Ignoring invalid %s=%q", key, v)
		return fallback
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
