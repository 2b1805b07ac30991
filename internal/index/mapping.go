// Package index holds the administrative operations that rebuild
// physical indexes from metadata.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
	"github.com/kailas-cloud/entdex/internal/index/language"
)

// Mapping recreates every index with a clean mapping derived from the
// current metadata. A deploy-time operation: the indexes do not exist
// for a window between delete and create.
type Mapping struct {
	registry  registry
	engine    engineClient
	languages *language.Configuration
	analyzers *analysis.Configuration
	logger    *zap.Logger
}

// NewMapping creates the index regenerator.
func NewMapping(
	r registry,
	e engineClient,
	languages *language.Configuration,
	analyzers *analysis.Configuration,
	logger *zap.Logger,
) *Mapping {
	return &Mapping{
		registry:  r,
		engine:    e,
		languages: languages,
		analyzers: analyzers,
		logger:    logger,
	}
}

// Regenerate deletes and recreates the index of every language
// bucket. Buckets with no matching items are deleted but not
// recreated. Failures are loud; regeneration must never silently
// leave a stale mapping behind.
func (m *Mapping) Regenerate(ctx context.Context) error {
	items := m.registry.AllItems()

	for _, langCode := range m.languages.AllLanguages() {
		indexName := m.languages.IndexName(langCode)

		if _, err := m.engine.SendStrict(ctx, engine.NewDeleteIndex(indexName)); err != nil {
			return fmt.Errorf("delete index %q: %w", indexName, err)
		}

		bucket := m.bucketItems(items, langCode)
		if bucket.IsEmpty() {
			m.logger.Debug("No items for bucket, skipping creation", zap.String("index", indexName))
			continue
		}

		request, err := engine.NewCreateIndex(langCode, bucket, m.languages, m.analyzers)
		if err != nil {
			return fmt.Errorf("build index %q: %w", indexName, err)
		}
		if _, err := m.engine.SendStrict(ctx, request); err != nil {
			return fmt.Errorf("create index %q: %w", indexName, err)
		}

		m.logger.Info("Recreated index",
			zap.String("index", indexName),
			zap.Int("items", bucket.Len()))
	}

	return nil
}

// bucketItems selects the items stored in a language bucket: the
// unlocalized bucket holds unlocalized items, every language bucket
// holds all localized items.
func (m *Mapping) bucketItems(items metadata.List, langCode string) metadata.List {
	if langCode == "" {
		return items.Unlocalized()
	}
	return items.Localized()
}
