package provider

import (
	"errors"
	"fmt"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

// Registry holds the configured providers and resolves which one serves a
// given request. It is populated once at startup and is safe for
// concurrent readers afterwards; there is no global instance.
type Registry struct {
	order     []string
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its name. Registration order decides
// first-match-wins resolution between providers of the same kind.
func (r *Registry) Register(p Provider) error {
	name := p.Name()
	if name == "" {
		return errors.New("registry: provider name must not be empty")
	}
	if !p.Kind().Valid() {
		return fmt.Errorf("registry: provider %q has unknown kind %q", name, p.Kind())
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("registry: provider %q already registered", name)
	}
	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Resolve selects the provider for a request. An explicit provider name
// wins and must exist; otherwise the model-name prefix convention picks
// the backend family and the first registered provider of that family
// serves the request. A model whose prefix matches no family is
// unsupported, even if providers are registered.
func (r *Registry) Resolve(model, explicit string) (Provider, *api.Error) {
	if explicit != "" {
		p, ok := r.providers[explicit]
		if !ok {
			return nil, api.NewUnknownProviderError(explicit)
		}
		return p, nil
	}

	kind, ok := KindForModel(model)
	if !ok {
		return nil, api.NewUnsupportedModelError(model)
	}
	for _, name := range r.order {
		if p := r.providers[name]; p.Kind() == kind {
			return p, nil
		}
	}
	return nil, api.NewUnsupportedModelError(model)
}

// List describes the registered providers in registration order.
func (r *Registry) List() []api.ProviderInfo {
	infos := make([]api.ProviderInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.providers[name].Info())
	}
	return infos
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// Close closes every registered provider and joins their errors.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.order {
		if err := r.providers[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing provider %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
