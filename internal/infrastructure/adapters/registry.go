package adapters

import (
	"sync"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
)

// Registry is the concrete adapter registry keyed by platform code.
// Registration happens during startup wiring; lookups are concurrent.
type Registry struct {
	mu       sync.RWMutex
	adapters map[standard.Platform]platform.Adapter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[standard.Platform]platform.Adapter),
	}
}

// Register adds an adapter under its own platform code, replacing any
// previous registration for that platform
func (r *Registry) Register(a platform.Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Platform()] = a
}

// Get returns the adapter for the platform
func (r *Registry) Get(p standard.Platform) (platform.Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[p]
	if !ok {
		return nil, platform.ErrNotRegistered
	}
	return a, nil
}

// List returns all registered adapters
func (r *Registry) List() []platform.Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]platform.Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		list = append(list, a)
	}
	return list
}

var _ platform.Registry = (*Registry)(nil)
