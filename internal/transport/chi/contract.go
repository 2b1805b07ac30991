package chi

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/search/result"
)

// searcher runs a full-text query across the registered items.
type searcher interface {
	Search(
		ctx context.Context,
		query string,
		langCode string,
		typeFilter []string,
		termFilters map[string]string,
	) (*result.Result, error)
}

// reindexer rebuilds the metadata, the index mappings and re-indexes
// every registered entity.
type reindexer interface {
	Run(ctx context.Context) error
}

// registry exposes the metadata the admin endpoints report on.
type registry interface {
	AllItems() metadata.List
	Clear(ctx context.Context) error
	IsInitialized() bool
}

// pinger is a connectivity probe for a backing service.
type pinger interface {
	Ping(ctx context.Context) error
}
