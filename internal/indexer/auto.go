package indexer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain"
)

// AutoIndexer reacts to entity lifecycle notifications from the host
// application and keeps the index current for items that opted into
// automatic indexing. Updates are buffered until Flush so a batch of
// changes turns into one bulk call.
type AutoIndexer struct {
	registry registry
	indexer  *Indexer
	logger   *zap.Logger

	mu      sync.Mutex
	pending []domain.Searchable
}

// NewAuto creates an auto indexer on top of an Indexer.
func NewAuto(r registry, i *Indexer, logger *zap.Logger) *AutoIndexer {
	return &AutoIndexer{registry: r, indexer: i, logger: logger}
}

// EntityUpdated queues an entity for reindexing. Entities of types
// that did not opt into auto indexing are ignored.
func (a *AutoIndexer) EntityUpdated(entity domain.Searchable) {
	if !a.autoIndexed(entity) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, entity)
}

// EntityDeleted removes an entity's document immediately.
func (a *AutoIndexer) EntityDeleted(ctx context.Context, entity domain.Searchable) {
	if !a.autoIndexed(entity) {
		return
	}

	if err := a.indexer.Remove(ctx, entity); err != nil {
		a.logger.Warn("Failed to remove document for deleted entity",
			zap.String("type", entity.SearchType()),
			zap.Int64("id", entity.SearchID()),
			zap.Error(err))
	}
}

// Flush bulk-indexes every queued entity.
func (a *AutoIndexer) Flush(ctx context.Context) error {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	return a.indexer.BulkIndex(ctx, pending)
}

func (a *AutoIndexer) autoIndexed(entity domain.Searchable) bool {
	item, err := a.registry.Get(entity.SearchType())
	if err != nil {
		return false
	}
	return item.AutoIndexed()
}
