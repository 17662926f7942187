package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/conchis/internal/common"
)

// ClientFactory builds a provider client from configuration. The service
// calls it with the current API key so a key set at runtime takes effect.
type ClientFactory func(cfg Config) (Client, error)

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch provider := normalizeProvider(cfg.Provider); provider {
	case ProviderOpenRouter, ProviderOpenAI:
		return newOpenAIClient(cfg, provider)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderOpenRouter
	}
	return provider
}

// truncate shortens s to at most n bytes for log and error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
