// Package search orchestrates query execution: one engine request
// per matching item, executed together, aggregated into a grouped,
// deduplicated result.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/index/language"
	"github.com/kailas-cloud/entdex/internal/loader"
	"github.com/kailas-cloud/entdex/internal/search/result"
)

// Client runs search queries against every matching item type.
type Client struct {
	registry  registry
	engine    engineClient
	languages *language.Configuration
	loaders   *loader.Registry
	generator Generator
	logger    *zap.Logger
}

// NewClient creates the query orchestrator. generator may be nil when
// no rebuild trigger exists.
func NewClient(
	r registry,
	e engineClient,
	languages *language.Configuration,
	loaders *loader.Registry,
	generator Generator,
	logger *zap.Logger,
) *Client {
	return &Client{
		registry:  r,
		engine:    e,
		languages: languages,
		loaders:   loaders,
		generator: generator,
		logger:    logger,
	}
}

// Search queries every item matching typeFilter. langCode selects the
// localized bucket; it must be set when any matching item is
// localized. termFilters restrict results by exact filter values
// without affecting scores.
func (c *Client) Search(
	ctx context.Context,
	query string,
	langCode string,
	typeFilter []string,
	termFilters map[string]string,
) (*result.Result, error) {
	if err := c.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	items, err := c.registry.AllItems().FilterByType(typeFilter)
	if err != nil {
		return nil, err
	}

	localized := items.Localized()
	unlocalized := items.Unlocalized()

	if langCode == "" && !localized.IsEmpty() {
		return nil, &domain.MissingLanguageError{TypeIDs: localized.TypeIDs()}
	}

	requests := make([]engine.Request, 0, items.Len())
	for _, item := range localized.All() {
		requests = append(requests, engine.NewSearch(c.languages.IndexName(langCode), query, item, termFilters))
	}
	for _, item := range unlocalized.All() {
		requests = append(requests, engine.NewSearch(c.languages.IndexName(""), query, item, termFilters))
	}

	responses, err := c.engine.SendMany(ctx, requests)
	if err != nil {
		return nil, fmt.Errorf("execute search requests: %w", err)
	}

	return c.aggregate(ctx, langCode, responses)
}

// ensureInitialized triggers a metadata rebuild when the registry
// holds no snapshot. Recoverable and logged, not a hard failure.
func (c *Client) ensureInitialized(ctx context.Context) error {
	if c.registry.IsInitialized() || c.generator == nil {
		return nil
	}

	c.logger.Info("Metadata registry uninitialized, rebuilding before search")
	if err := c.generator.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild metadata: %w", err)
	}
	return nil
}

func (c *Client) aggregate(ctx context.Context, langCode string, responses []*engine.Response) (*result.Result, error) {
	// Group raw hits by item type, preserving first-seen order.
	var typeOrder []string
	hitsByType := make(map[string][]engine.Hit)
	for _, response := range responses {
		if response == nil {
			continue
		}
		for _, hit := range response.Hits {
			if _, seen := hitsByType[hit.Type]; !seen {
				typeOrder = append(typeOrder, hit.Type)
			}
			hitsByType[hit.Type] = append(hitsByType[hit.Type], hit)
		}
	}

	builder := result.NewBuilder()
	for _, typeID := range typeOrder {
		entities, err := c.loadEntities(ctx, typeID, hitsByType[typeID])
		if err != nil {
			return nil, err
		}
		if entities == nil {
			continue
		}

		for _, hit := range hitsByType[typeID] {
			entity, ok := entities[hit.EntityID]
			if !ok {
				// Entity gone since indexing, drop the hit.
				continue
			}
			if err := builder.Add(result.NewHit(entity, hit.Score, hit.Highlights)); err != nil {
				return nil, err
			}
		}
	}

	return c.groupByType(langCode, builder.Hits())
}

// loadEntities bulk-loads the entities behind one type's hits. An
// unknown type means the index holds documents of a type no longer
// registered; those hits are dropped, not errors.
func (c *Client) loadEntities(ctx context.Context, typeID string, hits []engine.Hit) (map[int64]domain.Searchable, error) {
	item, err := c.registry.Get(typeID)
	if err != nil {
		c.logger.Warn("Dropping hits for unregistered type", zap.String("type", typeID))
		return nil, nil
	}

	l, err := c.loaders.ForItem(item)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.EntityID)
	}

	entities, err := l.Load(ctx, item, ids)
	if err != nil {
		return nil, fmt.Errorf("load entities for %q: %w", typeID, err)
	}
	return entities, nil
}

func (c *Client) groupByType(langCode string, hits []*result.Hit) (*result.Result, error) {
	var typeOrder []string
	grouped := make(map[string][]*result.Hit)
	for _, hit := range hits {
		typeID := hit.Entity().SearchType()
		if _, seen := grouped[typeID]; !seen {
			typeOrder = append(typeOrder, typeID)
		}
		grouped[typeID] = append(grouped[typeID], hit)
	}

	groups := make([]*result.EntityHits, 0, len(typeOrder))
	for _, typeID := range typeOrder {
		groups = append(groups, result.NewEntityHits(typeID, c.groupLanguage(typeID, langCode), grouped[typeID]))
	}
	return result.NewResult(groups), nil
}

func (c *Client) groupLanguage(typeID, langCode string) string {
	item, err := c.registry.Get(typeID)
	if err == nil && item.Localized() {
		return langCode
	}
	return ""
}
