// Package loader resolves entities behind search hits. Loaders are
// supplied by the host application and keyed per item, with an
// optional fallback.
package loader

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

// Loader bulk-loads entities of one item type. A nil ids slice means
// "all entities of this type". Missing ids are simply absent from the
// result map, never errors.
type Loader interface {
	Load(ctx context.Context, item *metadata.Item, ids []int64) (map[int64]domain.Searchable, error)
}

// Registry maps item loader names to Loader implementations.
type Registry struct {
	fallback Loader
	named    map[string]Loader
}

// NewRegistry creates a registry. fallback may be nil when every item
// declares a named loader.
func NewRegistry(fallback Loader) *Registry {
	return &Registry{
		fallback: fallback,
		named:    make(map[string]Loader),
	}
}

// Register binds a loader name. Rebinding a name is a configuration
// error.
func (r *Registry) Register(name string, l Loader) error {
	if _, exists := r.named[name]; exists {
		return &domain.InvalidLoaderError{Name: name}
	}
	r.named[name] = l
	return nil
}

// ForItem resolves the loader for an item: its named loader when
// declared, the fallback otherwise.
func (r *Registry) ForItem(item *metadata.Item) (Loader, error) {
	name := item.Loader()
	if name == "" {
		if r.fallback == nil {
			return nil, &domain.InvalidLoaderError{Name: "(fallback)"}
		}
		return r.fallback, nil
	}

	l, ok := r.named[name]
	if !ok {
		return nil, &domain.InvalidLoaderError{Name: name}
	}
	return l, nil
}
