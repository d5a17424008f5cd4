package inference

import (
	"fmt"
	"sort"
	"sync"

	"labelscan/internal/config"
	"labelscan/internal/port"
)

// ProviderFactory creates a CompletionProvider from the inference config.
type ProviderFactory func(cfg *config.InferenceConfig) (port.CompletionProvider, error)

// registry of provider factories, populated by init() in each provider package.
var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// NewProvider creates a CompletionProvider using the factory registered for cfg.Provider.
func NewProvider(cfg *config.InferenceConfig) (port.CompletionProvider, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown inference provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
