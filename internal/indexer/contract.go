package indexer

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
)

// registry is the consumer interface over the metadata registry (ISP).
type registry interface {
	Get(typeID string) (*metadata.Item, error)
}

// engineClient executes document requests.
type engineClient interface {
	Send(ctx context.Context, request engine.Request) (*engine.Response, error)
	BulkIndex(ctx context.Context, requests []*engine.DocumentRequest) error
}
