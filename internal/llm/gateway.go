// Package llm asks a chat-completion model to map template placeholders to
// values found in report text.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/port"
)

// Gateway implements port.FieldInferrer. The provider client is built on
// first use and then shared by every call for the lifetime of the Gateway.
type Gateway struct {
	cfg     config.LLMConfig
	factory ProviderFactory
	prompt  *Prompt
	schema  *jsonschema.Schema
	logger  *slog.Logger

	mu     sync.Mutex
	client port.Completer
}

// NewGateway creates a Gateway for the provider named in cfg.
func NewGateway(cfg config.LLMConfig, logger *slog.Logger) (*Gateway, error) {
	factory, err := Provider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return NewGatewayWithFactory(cfg, factory, logger)
}

// NewGatewayWithFactory creates a Gateway that builds its client with factory.
func NewGatewayWithFactory(cfg config.LLMConfig, factory ProviderFactory, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	prompt, err := NewPrompt()
	if err != nil {
		return nil, err
	}
	schema, err := compileResponseSchema()
	if err != nil {
		return nil, err
	}
	return &Gateway{
		cfg:     cfg,
		factory: factory,
		prompt:  prompt,
		schema:  schema,
		logger:  logger.With("component", "llm", "provider", cfg.Provider),
	}, nil
}

// Configured reports whether a credential is available.
func (g *Gateway) Configured() bool {
	return strings.TrimSpace(g.cfg.APIKey) != ""
}

// Client returns the shared provider client, building it on first use.
// A failed build is not remembered; the next call tries again.
func (g *Gateway) Client() (port.Completer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if !g.Configured() {
		return nil, fmt.Errorf("%w: no API key for provider %q", domain.ErrLLMNotConfigured, g.cfg.Provider)
	}
	client, err := g.factory(g.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMNotConfigured, err)
	}
	g.logger.Info("llm client created", "model", g.cfg.Model)
	g.client = client
	return client, nil
}

// InferFields sends one completion request and returns the validated mapping.
func (g *Gateway) InferFields(ctx context.Context, templateText, reportText string) (domain.FieldMapping, error) {
	client, err := g.Client()
	if err != nil {
		return nil, err
	}

	user, err := g.prompt.User(templateText, reportText)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := client.Complete(ctx, port.CompletionRequest{
		System:      SystemPrompt,
		User:        user,
		Temperature: g.cfg.Temperature,
		JSONObject:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMRequestFailed, err)
	}
	g.logger.Debug("llm completion received", "duration", time.Since(start), "bytes", len(content))

	fields, err := decodeFields(g.schema, content, g.cfg.RequireFields)
	if err != nil {
		return nil, err
	}
	g.logger.Info("fields inferred", "count", len(fields))
	return fields, nil
}
