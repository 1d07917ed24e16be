package ai

import (
	"fmt"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// supportedModels maps each provider to the models it serves.
var supportedModels = map[domain.Provider][]string{
	domain.ProviderOpenAI: {"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo", "text-davinci-003"},
	domain.ProviderClaude: {"claude-2", "claude-3-sonnet", "claude-3-opus", "claude-instant"},
	domain.ProviderGemini: {"gemini-pro", "gemini-pro-vision"},
}

// SupportedModels returns the model names available for a provider.
func SupportedModels(provider domain.Provider) []string {
	models := supportedModels[provider]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// DefaultModel returns the first supported model for a provider.
func DefaultModel(provider domain.Provider) string {
	models := supportedModels[provider]
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// ValidateModel checks a provider/model pair against the support table.
func ValidateModel(provider domain.Provider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q: %w", provider, domain.ErrUnsupportedModel)
	}
	for _, m := range supportedModels[provider] {
		if m == model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not supported by provider %q (supported: %v): %w",
		model, provider, supportedModels[provider], domain.ErrUnsupportedModel)
}
