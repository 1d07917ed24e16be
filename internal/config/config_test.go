package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// clearEnv unsets every variable the loader reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvModelProvider, EnvModelName, EnvModelTemperature, EnvEmbeddingModel,
		EnvVectorBackend, EnvMetadataBackend, EnvCollection, EnvDataDir,
		EnvOpenAIKey, EnvAnthropicKey, EnvGoogleKey,
		EnvQdrantURL, EnvQdrantAPIKey, EnvSupabaseURL, EnvSupabaseAPIKey,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderOpenAI, settings.Model.Provider)
	assert.Equal(t, "gpt-3.5-turbo", settings.Model.Model)
	assert.Zero(t, settings.Model.Temperature)
	assert.Equal(t, domain.VectorBackendLocal, settings.Vector.Backend)
	assert.Equal(t, DefaultCollection, settings.Vector.Collection)
	assert.Equal(t, domain.MetadataBackendFile, settings.Metadata.Backend)
	assert.NotEmpty(t, settings.DataDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := `
data_dir = "/var/lib/kbase"

[model]
provider = "claude"
name = "claude-3-opus"
temperature = 0.4

[vector]
backend = "qdrant"
collection = "corp-kb"

[metadata]
backend = "supabase"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderClaude, settings.Model.Provider)
	assert.Equal(t, "claude-3-opus", settings.Model.Model)
	assert.InDelta(t, 0.4, settings.Model.Temperature, 1e-9)
	assert.Equal(t, domain.VectorBackendQdrant, settings.Vector.Backend)
	assert.Equal(t, "corp-kb", settings.Vector.Collection)
	assert.Equal(t, domain.MetadataBackendSupabase, settings.Metadata.Backend)
	assert.Equal(t, "/var/lib/kbase", settings.DataDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[model]\nprovider = \"claude\"\n"), 0o600))

	t.Setenv(EnvModelProvider, "gemini")
	t.Setenv(EnvModelTemperature, "0.7")
	t.Setenv(EnvGoogleKey, "g-key")

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderGemini, settings.Model.Provider)
	assert.Equal(t, "gemini-pro", settings.Model.Model)
	assert.InDelta(t, 0.7, settings.Model.Temperature, 1e-9)
	assert.Equal(t, "g-key", settings.Model.APIKey)
}

func TestLoad_APIKeyFollowsProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIKey, "sk-openai")
	t.Setenv(EnvAnthropicKey, "sk-ant")

	t.Setenv(EnvModelProvider, "claude")
	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", settings.Model.APIKey)

	// Embeddings always use the OpenAI key.
	assert.Equal(t, "sk-openai", settings.Embedding.APIKey)
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModelProvider, "mistral")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral")
}

func TestLoad_InvalidTemperatureIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModelTemperature, "hot")

	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, settings.Model.Temperature)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [toml"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_CloudCredentialsPassedThrough(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvQdrantURL, "https://qdrant.example:6334")
	t.Setenv(EnvQdrantAPIKey, "q-key")
	t.Setenv(EnvSupabaseURL, "https://proj.supabase.co")
	t.Setenv(EnvSupabaseAPIKey, "s-key")

	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://qdrant.example:6334", settings.Vector.QdrantURL)
	assert.Equal(t, "q-key", settings.Vector.QdrantAPIKey)
	assert.Equal(t, "https://proj.supabase.co", settings.Metadata.SupabaseURL)
	assert.Equal(t, "s-key", settings.Metadata.SupabaseAPIKey)
}
