// Package indexer writes entities into their language-routed
// indexes.
package indexer

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/index/language"
)

// Indexer sends document requests for searchable entities. Entities
// whose type is not registered are skipped silently, never errors.
type Indexer struct {
	registry  registry
	engine    engineClient
	languages *language.Configuration
	values    *accessor.Values
	hook      engine.BeforeIndexHook
	indexed   *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates an indexer. hook may be nil.
func New(
	r registry,
	e engineClient,
	languages *language.Configuration,
	values *accessor.Values,
	hook engine.BeforeIndexHook,
	logger *zap.Logger,
) *Indexer {
	return &Indexer{
		registry:  r,
		engine:    e,
		languages: languages,
		values:    values,
		hook:      hook,
		logger:    logger,
	}
}

// WithMetrics attaches a counter labeled by entity type, incremented
// for every document sent to the engine.
func (i *Indexer) WithMetrics(indexed *prometheus.CounterVec) *Indexer {
	i.indexed = indexed
	return i
}

// Index writes one entity. A no-op when the entity type is not
// searchable.
func (i *Indexer) Index(ctx context.Context, entity domain.Searchable) error {
	request := i.buildRequest(entity)
	if request == nil {
		return nil
	}

	if _, err := i.engine.Send(ctx, request); err != nil {
		return fmt.Errorf("index %s: %w", request.ID(), err)
	}
	i.observe(request.DocType(), 1)
	return nil
}

// BulkIndex writes entities in one batched call. Entities without a
// registered type are skipped.
func (i *Indexer) BulkIndex(ctx context.Context, entities []domain.Searchable) error {
	requests := make([]*engine.DocumentRequest, 0, len(entities))
	for _, entity := range entities {
		if request := i.buildRequest(entity); request != nil {
			requests = append(requests, request)
		}
	}

	if len(requests) == 0 {
		return nil
	}
	if err := i.engine.BulkIndex(ctx, requests); err != nil {
		return err
	}
	for _, request := range requests {
		i.observe(request.DocType(), 1)
	}
	return nil
}

// Remove deletes an entity's document. Missing documents are
// tolerated, so removal is idempotent.
func (i *Indexer) Remove(ctx context.Context, entity domain.Searchable) error {
	item, err := i.registry.Get(entity.SearchType())
	if err != nil {
		return nil
	}

	index := i.languages.IndexForEntity(entity)
	request := engine.NewDeleteDocument(index, item.TypeID(), entity.SearchID())
	if _, err := i.engine.Send(ctx, request); err != nil {
		return fmt.Errorf("remove %s: %w", request.ID(), err)
	}
	return nil
}

func (i *Indexer) buildRequest(entity domain.Searchable) *engine.DocumentRequest {
	item, err := i.registry.Get(entity.SearchType())
	if err != nil {
		i.logger.Debug("Skipping entity of unregistered type", zap.String("type", entity.SearchType()))
		return nil
	}

	index := i.languages.IndexForEntity(entity)
	return engine.NewDocument(index, entity, item, i.values, i.hook)
}

func (i *Indexer) observe(docType string, count float64) {
	if i.indexed != nil {
		i.indexed.WithLabelValues(docType).Add(count)
	}
}
