// Package openrouter talks to OpenRouter, or any OpenAI-compatible
// chat-completion endpoint.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"glrfill/internal/config"
	"glrfill/internal/llm"
	"glrfill/internal/port"
)

// ProviderName is the llm.provider value selecting this package.
const ProviderName = "openrouter"

func init() {
	llm.RegisterProvider(ProviderName, func(cfg config.LLMConfig) (port.Completer, error) {
		return New(cfg)
	})
}

// Client implements port.Completer on top of go-openai.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a client from the LLM config. BaseURL defaults to the
// OpenRouter API; Referer and Title are sent as identification headers.
func New(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("openrouter: model is empty")
	}

	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	c.HTTPClient = &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}

	return &Client{
		client: openai.NewClientWithConfig(c),
		model:  cfg.Model,
	}, nil
}

// Complete sends a system + user message pair and returns the first choice.
func (c *Client) Complete(ctx context.Context, req port.CompletionRequest) (string, error) {
	creq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
	}
	if req.JSONObject {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from API: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
