package registry

import (
	"errors"
	"fmt"
	"sort"

	"asset-sync/feature/provider"
	"asset-sync/feature/provider/connectwise"
	"asset-sync/feature/provider/custom"
	"asset-sync/feature/provider/datto"
	"asset-sync/feature/provider/hudu"
	"asset-sync/feature/provider/itglue"
	"asset-sync/feature/provider/ninjaone"
)

// ErrUnknownProvider is returned for keys with no registered adapter.
var ErrUnknownProvider = errors.New("unknown provider")

// Info describes a registered adapter for configuration UIs.
type Info struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
}

// Registry resolves provider keys to adapters. It is built once at startup
// and read-only afterwards.
type Registry struct {
	providers map[string]provider.Provider
}

// New registers the given adapters. A later adapter with the same key replaces an earlier one.
func New(providers ...provider.Provider) *Registry {
	r := &Registry{providers: make(map[string]provider.Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Key()] = p
	}
	return r
}

// Default registers every built-in vendor adapter.
func Default(req *provider.Requester) *Registry {
	return New(
		connectwise.New(req),
		datto.New(req),
		itglue.New(req),
		hudu.New(req),
		ninjaone.New(req),
		custom.New(req),
	)
}

// Get returns the adapter for key.
func (r *Registry) Get(key string) (provider.Provider, error) {
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	return p, nil
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns key and display name of every adapter, sorted by key.
func (r *Registry) List() []Info {
	keys := r.Keys()
	out := make([]Info, 0, len(keys))
	for _, k := range keys {
		out = append(out, Info{Key: k, DisplayName: r.providers[k].DisplayName()})
	}
	return out
}
