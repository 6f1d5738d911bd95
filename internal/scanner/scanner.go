package scanner

import (
	"context"

	"StockRadar/internal/domain"
)

// Source captures a single feed adapter (Yahoo gainers, SEC filings, etc.).
// Scan returns the candidates detected since the previous cycle; adapters are
// expected to apply their own relevance filtering before returning.
type Source interface {
	Name() string
	Market() domain.Market
	Scan(ctx context.Context) ([]domain.Candidate, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(source Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	if _, ok := r.sources[source.Name()]; !ok {
		r.order = append(r.order, source.Name())
	}
	r.sources[source.Name()] = source
}

// All returns every registered source in registration order.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}
