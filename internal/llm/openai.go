package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/conchis/internal/common"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	openAIBaseURL          = "https://api.openai.com/v1"
	defaultOpenRouterModel = "openai/gpt-4o-mini"
	defaultOpenAIModel     = "gpt-4o-mini"

	// maxResponseBytes caps how much of a reply body is read.
	maxResponseBytes = 4 << 20
)

// openAIClient implements the Client interface for OpenAI-compatible chat
// completion APIs, which covers both OpenAI and OpenRouter.
type openAIClient struct {
	httpClient  *http.Client
	provider    string
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI-compatible API client.
func newOpenAIClient(cfg Config, provider string) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	baseURL, model := openAIBaseURL, defaultOpenAIModel
	if provider == ProviderOpenRouter {
		baseURL, model = openRouterBaseURL, defaultOpenRouterModel
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &openAIClient{
		provider:    provider,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.temperature(0),
		maxTokens:   cfg.maxTokens(0),
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Usage       *openAIUsageOption `json:"usage,omitempty"`
	Model       string             `json:"model"`
	Messages    []openAIMessage    `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

// openAIUsageOption asks OpenRouter to include the billed cost in the reply.
type openAIUsageOption struct {
	Include bool `json:"include"`
}

// openAIResponse represents the chat completion response structure.
type openAIResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		Cost             *float64 `json:"cost"`
		PromptTokens     int64    `json:"prompt_tokens"`
		CompletionTokens int64    `json:"completion_tokens"`
	} `json:"usage"`
}

// Send posts a chat completion request.
func (c *openAIClient) Send(ctx context.Context, r Request) (Reply, error) {
	var messages []openAIMessage
	if r.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: r.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: r.Prompt})

	requestBody := openAIRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if r.Temperature > 0 {
		requestBody.Temperature = r.Temperature
	}
	if r.MaxTokens > 0 {
		requestBody.MaxTokens = r.MaxTokens
	}
	if c.provider == ProviderOpenRouter {
		requestBody.Usage = &openAIUsageOption{Include: true}
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.provider == ProviderOpenRouter {
		req.Header.Set("X-Title", "Conchis")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: request failed: %v", common.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: failed to read response: %v", common.ErrTransport, err)
	}
	if len(body) > maxResponseBytes {
		return Reply{}, fmt.Errorf("%w: response larger than %d bytes", common.ErrMalformedReply, maxResponseBytes)
	}

	if resp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("%w: %s API error (status %d): %s", common.ErrTransport, c.provider, resp.StatusCode, truncate(string(body), 200))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Reply{}, fmt.Errorf("%w: failed to parse response: %v", common.ErrMalformedReply, err)
	}

	if response.Error != nil {
		return Reply{}, fmt.Errorf("%w: %s API error: %s", common.ErrTransport, c.provider, response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return Reply{}, fmt.Errorf("%w: no completion choices returned", common.ErrMalformedReply)
	}

	reply := Reply{
		Text:         response.Choices[0].Message.Content,
		Model:        response.Model,
		InputTokens:  response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
	}
	if reply.Model == "" {
		reply.Model = c.model
	}
	if response.Usage.Cost != nil {
		reply.Cost = *response.Usage.Cost
		reply.HasCost = true
	}

	return reply, nil
}
