// Package entdex embeds metadata-driven entity search into a Go
// application: declare which entity types are searchable and which of
// their values feed the index, and the library manages mappings,
// indexing and grouped full-text search on an Elasticsearch engine.
package entdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/cache"
	cacheMemory "github.com/kailas-cloud/entdex/internal/cache/memory"
	cacheRedis "github.com/kailas-cloud/entdex/internal/cache/redis"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/engine/es"
	idxpkg "github.com/kailas-cloud/entdex/internal/index"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
	"github.com/kailas-cloud/entdex/internal/index/language"
	"github.com/kailas-cloud/entdex/internal/indexer"
	"github.com/kailas-cloud/entdex/internal/loader"
	metaRepo "github.com/kailas-cloud/entdex/internal/repository/metadata"
	"github.com/kailas-cloud/entdex/internal/search"
)

const (
	defaultIndexPattern     = "entdex-{language}"
	defaultReadinessTimeout = 10 * time.Second
)

// engineClient is the full engine surface the library wires against.
type engineClient interface {
	Ping(ctx context.Context) error
	Send(ctx context.Context, request engine.Request) (*engine.Response, error)
	SendStrict(ctx context.Context, request engine.Request) (*engine.Response, error)
	SendMany(ctx context.Context, requests []engine.Request) ([]*engine.Response, error)
	BulkIndex(ctx context.Context, requests []*engine.DocumentRequest) error
}

// Client is the entdex library entry point.
type Client struct {
	engine     engineClient
	redisStore *cacheRedis.Store
	registry   *metaRepo.Registry
	generator  *metaRepo.Generator
	loaders    *loader.Registry
	values     *accessor.Values
	indexer    *indexer.Indexer
	auto       *indexer.AutoIndexer
	reindexer  *idxpkg.Reindexer
	search     *search.Client
	logger     *zap.Logger
}

// New creates an entdex Client and connects to the configured
// backends.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexPattern: defaultIndexPattern,
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if len(cfg.items) == 0 {
		return nil, errors.New("entdex: at least one item definition required (use WithItems)")
	}

	eng := cfg.engine
	if eng == nil {
		if len(cfg.engineAddrs) == 0 {
			return nil, errors.New("entdex: engine address required (use WithEngine)")
		}
		built, err := es.NewClient(es.Config{
			Addresses: cfg.engineAddrs,
			Username:  cfg.engineUser,
			Password:  cfg.enginePass,
		}, cfg.logger, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("entdex: create engine client: %w", err)
		}
		eng = built
	}

	analyzers, err := buildAnalysis(cfg)
	if err != nil {
		return nil, err
	}
	languages, err := language.NewConfiguration(cfg.indexPattern, cfg.languages, cfg.unlocalized)
	if err != nil {
		return nil, fmt.Errorf("entdex: %w", err)
	}

	values := accessor.NewValues()
	for name, def := range cfg.formats {
		if err := values.RegisterFormat(name, def.processor, def.htmlPostProcess); err != nil {
			return nil, fmt.Errorf("entdex: %w", err)
		}
	}

	c := &Client{engine: eng, values: values, logger: cfg.logger}

	store, err := c.createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	c.registry = metaRepo.NewRegistry(ctx, store, cfg.logger)
	items := cfg.items
	c.generator = metaRepo.NewGenerator(c.registry, func(context.Context) ([]*metadata.Item, error) {
		return items, nil
	}, cfg.logger)

	fallback := cfg.fallback
	if fallback == nil {
		fallback = loader.NewStatic()
	}
	c.loaders = loader.NewRegistry(fallback)
	for name, l := range cfg.loaders {
		if err := c.loaders.Register(name, l); err != nil {
			return nil, fmt.Errorf("entdex: %w", err)
		}
	}

	c.indexer = indexer.New(c.registry, eng, languages, values, cfg.hook, cfg.logger)
	c.auto = indexer.NewAuto(c.registry, c.indexer, cfg.logger)

	mapping := idxpkg.NewMapping(c.registry, eng, languages, analyzers, cfg.logger)
	c.reindexer = idxpkg.NewReindexer(c.registry, c.generator, mapping, c.loaders, c.indexer, cfg.logger)

	c.search = search.NewClient(c.registry, eng, languages, c.loaders, c.generator, cfg.logger)

	// Populate the registry from the declared items when no cached
	// snapshot hydrated it.
	if !c.registry.IsInitialized() {
		if err := c.generator.Rebuild(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("entdex: build metadata: %w", err)
		}
	}

	return c, nil
}

func (c *Client) createStore(cfg *clientConfig) (cache.Store, error) {
	if cfg.cacheStore != nil {
		return cfg.cacheStore, nil
	}
	if cfg.redisCfg == nil {
		return cacheMemory.NewStore(), nil
	}

	redisStore, err := cacheRedis.NewStore(*cfg.redisCfg)
	if err != nil {
		return nil, fmt.Errorf("entdex: create redis store: %w", err)
	}
	if err := redisStore.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		redisStore.Close()
		return nil, fmt.Errorf("entdex: cache not ready: %w", err)
	}
	c.redisStore = redisStore
	return redisStore, nil
}

func buildAnalysis(cfg *clientConfig) (*analysis.Configuration, error) {
	analyzers := analysis.NewConfiguration()
	for name, def := range cfg.filters {
		if err := analyzers.RegisterFilter(name, def); err != nil {
			return nil, fmt.Errorf("entdex: %w", err)
		}
	}
	for name, def := range cfg.analyzers {
		if err := analyzers.RegisterAnalyzer(name, def); err != nil {
			return nil, fmt.Errorf("entdex: %w", err)
		}
	}
	return analyzers, nil
}

// Close releases held resources.
func (c *Client) Close() {
	if c.redisStore != nil {
		c.redisStore.Close()
	}
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Index writes one entity into its index. A no-op for entities of
// unregistered types.
func (c *Client) Index(ctx context.Context, entity domain.Searchable) error {
	return c.indexer.Index(ctx, entity)
}

// BulkIndex writes entities in chunked bulk calls.
func (c *Client) BulkIndex(ctx context.Context, entities []domain.Searchable) error {
	return c.indexer.BulkIndex(ctx, entities)
}

// Remove deletes an entity's document. Idempotent.
func (c *Client) Remove(ctx context.Context, entity domain.Searchable) error {
	return c.indexer.Remove(ctx, entity)
}

// Reindex clears the metadata, recreates every index with fresh
// mappings and re-indexes all loadable entities.
func (c *Client) Reindex(ctx context.Context) error {
	return c.reindexer.Run(ctx)
}

// AutoIndexer returns the lifecycle tracker that batches entity
// updates until Flush, mirroring a persistence unit of work.
func (c *Client) AutoIndexer() *AutoIndexer {
	return c.auto
}

// Loaders returns the loader registry for late registration.
func (c *Client) Loaders() *loader.Registry {
	return c.loaders
}

// Items returns the registered item definitions.
func (c *Client) Items() metadata.List {
	return c.registry.AllItems()
}
