package llm

import (
	"fmt"
	"sort"
	"sync"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/port"
)

// ProviderFactory builds a Completer from the LLM config. Factories are only
// called with a non-empty API key.
type ProviderFactory func(cfg config.LLMConfig) (port.Completer, error)

// registry of provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// Provider returns the factory registered under name.
func Provider(name string) (ProviderFactory, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
	return factory, nil
}

// Providers lists the registered provider names.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
