package circuit

import (
	"context"
	"sync"
)

// Registry maps dependency names to breakers
// construct once at startup and pass by reference; never a package global
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	defaults Settings
	perName  map[string]Settings
	obs      func(Transition)
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithDefaults sets the settings applied to names without explicit config
func WithDefaults(set Settings) RegistryOption {
	return func(r *Registry) { r.defaults = set }
}

// WithSettings sets per-dependency settings, e.g. "slack", "email", "directory"
func WithSettings(name string, set Settings) RegistryOption {
	return func(r *Registry) { r.perName[name] = set }
}

// WithObserver registers a callback invoked on every state transition
func WithObserver(fn func(Transition)) RegistryOption {
	return func(r *Registry) { r.obs = fn }
}

// NewRegistry builds a Registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		breakers: map[string]*Breaker{},
		perName:  map[string]Settings{},
		defaults: Settings{}.withDefaults(),
	}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	return r
}

// Get returns the breaker for name, creating it lazily with the configured
// settings (or the registry defaults for unknown names)
func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	set, ok := r.perName[name]
	if !ok {
		set = r.defaults
	}
	b := NewBreaker(name, set)
	b.obs = r.obs
	r.breakers[name] = b
	return b
}

// Do runs fn through the breaker registered for name
func (r *Registry) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	return r.Get(name).Do(ctx, fn)
}

// States snapshots every known breaker's state for diagnostics
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]State, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.State()
	}
	return out
}
