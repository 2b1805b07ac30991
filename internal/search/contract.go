package search

import (
	"context"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
)

// registry is the consumer interface over the metadata registry (ISP).
type registry interface {
	AllItems() metadata.List
	Get(typeID string) (*metadata.Item, error)
	IsInitialized() bool
}

// engineClient executes search requests.
type engineClient interface {
	SendMany(ctx context.Context, requests []engine.Request) ([]*engine.Response, error)
}

// Generator rebuilds the metadata registry from its source of truth.
// The search client triggers it when the registry is uninitialized.
type Generator interface {
	Rebuild(ctx context.Context) error
}
