// Package gemini implements the completion port with Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"glrfill/internal/config"
	"glrfill/internal/llm"
	"glrfill/internal/port"
)

// ProviderName is the llm.provider value selecting this package.
const ProviderName = "gemini"

const defaultModel = "gemini-2.0-flash"

func init() {
	llm.RegisterProvider(ProviderName, func(cfg config.LLMConfig) (port.Completer, error) {
		return New(context.Background(), cfg)
	})
}

// Client implements port.Completer using the genai SDK.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client. The OpenRouter default model is not a Gemini
// model, so an unset or OpenRouter-style model falls back to gemini-2.0-flash.
func New(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	model := cfg.Model
	if !isGeminiModel(model) {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" && cfg.BaseURL != config.DefaultOpenRouterBaseURL {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete generates one candidate and returns its first text part.
func (c *Client) Complete(ctx context.Context, req port.CompletionRequest) (string, error) {
	temp := req.Temperature
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
	}
	if req.JSONObject {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), gc)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from API: no candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("empty response from API: no parts")
	}
	return parts[0].Text, nil
}

func isGeminiModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}
