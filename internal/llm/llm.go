// Package llm provides a provider-agnostic chat completion client for the
// classification pipeline. Providers speak the OpenAI-compatible
// chat/completions JSON dialect and are selected by name per request.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxResponseSize limits the completion response body read.
const maxResponseSize = 10 * 1024 * 1024

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request defines a chat completion request. Provider and Model fall back to
// the configured defaults when empty; Temperature falls back when nil.
type Request struct {
	Provider    string
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// TokenUsage represents token consumption details for a completion call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the completion result.
type Response struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// Client sends completion requests to a configured set of providers.
// Each request is a single attempt bounded by the caller's context.
type Client struct {
	cfg        *Config
	providers  map[string]Provider
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with providers built from the configuration.
func NewClient(cfg *Config, logger *slog.Logger) *Client {
	providers := map[string]Provider{
		"openai": &openAIProvider{apiKey: cfg.APIKey},
		"ollama": &ollamaProvider{apiKey: cfg.APIKey},
	}

	return &Client{
		cfg:        cfg,
		providers:  providers,
		httpClient: &http.Client{},
		logger:     logger.With("system", "llm"),
	}
}

// Providers returns the names of all configured providers.
func (c *Client) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for name := range c.providers {
		names = append(names, name)
	}
	return names
}

// Complete sends a chat completion request and returns the parsed response.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	name := req.Provider
	if name == "" {
		name = c.cfg.Provider
	}
	provider, ok := c.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	temperature := req.Temperature
	if temperature == nil {
		temperature = &c.cfg.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	body, err := provider.BuildRequestBody(model, req.Messages, temperature, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	url := provider.BuildURL(c.cfg.BaseURL)

	c.logger.Debug(
		"sending completion request",
		"provider", name,
		"model", model,
		"messages", len(req.Messages),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrCompletion, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		excerpt := string(respBody)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrCompletion, httpResp.StatusCode, excerpt)
	}

	resp, err := provider.ParseResponse(respBody, model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	return resp, nil
}
