package metadata

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

// Source yields the authoritative item definitions, typically parsed
// from configuration or collected from host registrations.
type Source func(ctx context.Context) ([]*metadata.Item, error)

// Generator rebuilds the registry from its source of truth.
type Generator struct {
	registry *Registry
	source   Source
	logger   *zap.Logger
}

// NewGenerator creates a rebuild trigger for the registry.
func NewGenerator(r *Registry, source Source, logger *zap.Logger) *Generator {
	return &Generator{registry: r, source: source, logger: logger}
}

// Rebuild replaces the registry contents with the source's current
// definitions.
func (g *Generator) Rebuild(ctx context.Context) error {
	items, err := g.source(ctx)
	if err != nil {
		return fmt.Errorf("collect item definitions: %w", err)
	}

	for _, item := range items {
		if err := g.registry.Add(ctx, item); err != nil {
			return fmt.Errorf("register item %q: %w", item.TypeID(), err)
		}
	}

	g.logger.Info("Rebuilt metadata registry", zap.Int("items", len(items)))
	return nil
}
