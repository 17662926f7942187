package llm

import (
	"context"
	"fmt"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicClient implements the Client interface using the Anthropic SDK.
type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
}

// newAnthropicClient creates a new Anthropic API client.
// SDK retries are disabled: a failed call is reported, never retried.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.timeout()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.temperature(0),
		maxTokens:   cfg.maxTokens(0),
	}, nil
}

// Send sends a single-turn message request to Anthropic.
func (c *anthropicClient) Send(ctx context.Context, r Request) (Reply, error) {
	maxTokens := c.maxTokens
	if r.MaxTokens > 0 {
		maxTokens = r.MaxTokens
	}
	temperature := c.temperature
	if r.Temperature > 0 {
		temperature = r.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(r.Prompt)),
		},
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: anthropic API error: %v", common.ErrTransport, err)
	}

	reply := Reply{
		Model:        string(message.Model),
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	if reply.Model == "" {
		reply.Model = c.model
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			reply.Text = block.Text
			return reply, nil
		}
	}

	return reply, fmt.Errorf("%w: no text content in anthropic response", common.ErrMalformedReply)
}
