package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/loader"
)

// Reindexer rebuilds everything from scratch: metadata, index
// mappings, and every document.
type Reindexer struct {
	registry  registry
	generator generator
	mapping   *Mapping
	loaders   *loader.Registry
	indexer   bulkIndexer
	logger    *zap.Logger
}

// NewReindexer creates the full-rebuild orchestrator.
func NewReindexer(
	r registry,
	g generator,
	mapping *Mapping,
	loaders *loader.Registry,
	indexer bulkIndexer,
	logger *zap.Logger,
) *Reindexer {
	return &Reindexer{
		registry:  r,
		generator: g,
		mapping:   mapping,
		loaders:   loaders,
		indexer:   indexer,
		logger:    logger,
	}
}

// Run clears the metadata registry, rebuilds it from its source of
// truth, regenerates every index, then loads and indexes every
// entity of every item.
func (r *Reindexer) Run(ctx context.Context) error {
	if err := r.registry.Clear(ctx); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	if err := r.generator.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild metadata: %w", err)
	}
	if err := r.mapping.Regenerate(ctx); err != nil {
		return err
	}

	for _, item := range r.registry.AllItems().All() {
		l, err := r.loaders.ForItem(item)
		if err != nil {
			return err
		}

		entities, err := l.Load(ctx, item, nil)
		if err != nil {
			return fmt.Errorf("load entities for %q: %w", item.TypeID(), err)
		}

		batch := make([]domain.Searchable, 0, len(entities))
		for _, entity := range entities {
			batch = append(batch, entity)
		}
		if err := r.indexer.BulkIndex(ctx, batch); err != nil {
			return fmt.Errorf("bulk index %q: %w", item.TypeID(), err)
		}

		r.logger.Info("Reindexed item", zap.String("type", item.TypeID()), zap.Int("entities", len(batch)))
	}

	return nil
}
