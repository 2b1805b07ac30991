package index

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
)

// registry is the consumer interface over the metadata registry (ISP).
type registry interface {
	AllItems() metadata.List
	Clear(ctx context.Context) error
}

// engineClient executes administrative requests. Regeneration is
// strict: connectivity failures propagate instead of degrading.
type engineClient interface {
	SendStrict(ctx context.Context, request engine.Request) (*engine.Response, error)
}

// bulkIndexer writes full batches of entities.
type bulkIndexer interface {
	BulkIndex(ctx context.Context, entities []domain.Searchable) error
}

// generator rebuilds the metadata registry from its source of truth.
type generator interface {
	Rebuild(ctx context.Context) error
}
