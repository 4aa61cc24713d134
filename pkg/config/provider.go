package config

import (
	"maps"
	"sync"
)

// Provider holds the built-in defaults and the overrides applied through
// Configure. One provider is created at startup and passed to every
// bootstrap call that should share the same overrides.
type Provider struct {
	mu        sync.RWMutex
	defaults  Options
	overrides Options
}

// NewProvider returns a provider with the given defaults and no overrides.
func NewProvider(defaults Options) *Provider {
	return &Provider{
		defaults:  defaults.Clone(),
		overrides: make(Options),
	}
}

// Configure sets a single override.
func (p *Provider) Configure(key string, value any) {
	p.mu.Lock()
	p.overrides[key] = value
	p.mu.Unlock()
}

// ConfigureAll merges every key of o into the overrides.
func (p *Provider) ConfigureAll(o Options) {
	p.mu.Lock()
	maps.Copy(p.overrides, o)
	p.mu.Unlock()
}

// Effective returns defaults, overrides and partials merged in that order.
func (p *Provider) Effective(partials ...Options) Options {
	p.mu.RLock()
	sources := make([]Options, 0, len(partials)+2)
	sources = append(sources, p.defaults, p.overrides)
	out := Merge(sources...)
	p.mu.RUnlock()

	for _, part := range partials {
		maps.Copy(out, part)
	}
	return out
}

// Overrides returns a copy of the current overrides.
func (p *Provider) Overrides() Options {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.overrides.Clone()
}
