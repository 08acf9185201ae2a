package search

// Registry holds supplemental search sources consulted after the fixed
// fallback chain. The built-in chain (instant answer, HTML search,
// encyclopedia) never goes through the registry: its order is part of the
// aggregation contract.
type Registry struct {
	sources []Source
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: []Source{},
	}
}

// Register adds a source to the registry
func (r *Registry) Register(source Source) {
	r.sources = append(r.sources, source)
}

// GetAll returns all registered sources in registration order
func (r *Registry) GetAll() []Source {
	return r.sources
}

// Count returns the number of registered sources
func (r *Registry) Count() int {
	return len(r.sources)
}
