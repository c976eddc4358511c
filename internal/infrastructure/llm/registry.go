package llm

import (
	"fmt"
	"net/http"

	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/ports"
)

// Factory builds a generator for one provider.
type Factory func(cfg config.ProviderConfig, httpClient *http.Client) ports.TextGenerator

// Registry keeps a mapping from provider names to their constructors.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry knows the openai, groq and gemini backends.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("openai", func(cfg config.ProviderConfig, hc *http.Client) ports.TextGenerator {
		return NewChatClient("openai", cfg, hc)
	})
	r.Register("groq", func(cfg config.ProviderConfig, hc *http.Client) ports.TextGenerator {
		return NewChatClient("groq", cfg, hc)
	})
	r.Register("gemini", func(cfg config.ProviderConfig, hc *http.Client) ports.TextGenerator {
		return NewGeminiClient(cfg, hc)
	})
	return r
}

// Register adds or replaces a provider constructor.
func (r *Registry) Register(name string, f Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[name] = f
}

// Resolve builds the statically selected provider. There is no fallback between providers.
func (r *Registry) Resolve(ai config.AIConfig, httpClient *http.Client) (ports.TextGenerator, error) {
	name, providerCfg, err := ai.ActiveProvider()
	if err != nil {
		return nil, err
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: provider %s is not registered", config.ErrProviderNotConfigured, name)
	}
	return f(providerCfg, httpClient), nil
}
