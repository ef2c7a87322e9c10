package client

import (
	"sort"
	"strings"
)

// Provider names accepted by the aiProvider setting
const (
	ProviderGemini = "gemini"
	ProviderZai    = "zai"
)

// ProviderRegistry maps provider names to generators and picks the one a
// job should use.
type ProviderRegistry struct {
	providers   map[string]ArticleGenerator
	defaultName string
	fallback    ArticleGenerator
}

// NewProviderRegistry creates a registry. fallback is used when neither the
// requested nor the default provider is configured; it may be nil.
func NewProviderRegistry(defaultName string, fallback ArticleGenerator, generators ...ArticleGenerator) *ProviderRegistry {
	r := &ProviderRegistry{
		providers:   make(map[string]ArticleGenerator, len(generators)),
		defaultName: strings.ToLower(defaultName),
		fallback:    fallback,
	}
	for _, g := range generators {
		r.providers[strings.ToLower(g.Name())] = g
	}
	return r
}

// Resolve returns the generator for name. Unknown or unconfigured providers
// fall back to the default provider, then to the fallback generator.
func (r *ProviderRegistry) Resolve(name string) ArticleGenerator {
	if g, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]; ok && g.IsConfigured() {
		return g
	}
	if g, ok := r.providers[r.defaultName]; ok && g.IsConfigured() {
		return g
	}
	if r.fallback != nil {
		return r.fallback
	}
	// Nothing configured: hand back the default so the job fails with its
	// "not configured" error rather than a nil dereference.
	return r.providers[r.defaultName]
}

// Status reports whether each registered provider is configured
func (r *ProviderRegistry) Status() map[string]bool {
	status := make(map[string]bool, len(r.providers))
	for name, g := range r.providers {
		status[name] = g.IsConfigured()
	}
	return status
}

// Names lists registered providers
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
