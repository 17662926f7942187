package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
// Send is synchronous; the timeout comes from the provider configuration or ctx.
type Client interface {
	Send(ctx context.Context, req Request) (Reply, error)
}

// Request is a single prompt sent to the remote model.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Reply is the raw text reply and its usage accounting.
type Reply struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
	Cost         float64 // Provider-reported cost in USD, valid when HasCost
	HasCost      bool
}

// Config holds configuration for the remote LLM.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MinInterval time.Duration
	Temperature float64
	MaxTokens   int
}

// Provider names.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

// Defaults applied when the configuration leaves a field unset.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMinInterval = 2 * time.Second
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.2
)

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c Config) temperature(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if c.Temperature > 0 {
		return c.Temperature
	}
	return DefaultTemperature
}
