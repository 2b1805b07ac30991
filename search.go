package entdex

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/search/result"
)

// SearchOption narrows a search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	language string
	types    []string
	filters  map[string]string
}

// InLanguage selects the localized index bucket. Required when any
// queried type is localized.
func InLanguage(code string) SearchOption {
	return func(c *searchConfig) {
		c.language = code
	}
}

// OfTypes restricts the search to the given entity types.
func OfTypes(types ...string) SearchOption {
	return func(c *searchConfig) {
		c.types = append(c.types, types...)
	}
}

// Where restricts results to entities whose filter holds the exact
// value. Filters never affect scoring.
func Where(name, value string) SearchOption {
	return func(c *searchConfig) {
		if c.filters == nil {
			c.filters = make(map[string]string)
		}
		c.filters[name] = value
	}
}

// Search runs a full-text query across the registered items and
// returns hits grouped by entity type, resolved to loaded entities.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (*result.Result, error) {
	cfg := &searchConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return c.search.Search(ctx, query, cfg.language, cfg.types, cfg.filters)
}
