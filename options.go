package entdex

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/cache"
	cacheRedis "github.com/kailas-cloud/entdex/internal/cache/redis"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
	"github.com/kailas-cloud/entdex/internal/index/language"
	"github.com/kailas-cloud/entdex/internal/loader"
)

// Option configures client creation.
type Option func(*clientConfig)

type formatDefinition struct {
	processor       accessor.Processor
	htmlPostProcess bool
}

type clientConfig struct {
	engineAddrs []string
	engineUser  string
	enginePass  string
	engine      engineClient

	cacheStore cache.Store
	redisCfg   *cacheRedis.Config

	indexPattern string
	languages    map[string]language.AnalyzerPair
	unlocalized  language.AnalyzerPair

	analyzers map[string]analysis.Definition
	filters   map[string]analysis.Definition

	items    []*metadata.Item
	loaders  map[string]loader.Loader
	fallback loader.Loader

	hook    engine.BeforeIndexHook
	formats map[string]formatDefinition

	logger *zap.Logger
}

// WithEngine connects to the search engine at the given addresses.
func WithEngine(addresses []string, username, password string) Option {
	return func(c *clientConfig) {
		c.engineAddrs = addresses
		c.engineUser = username
		c.enginePass = password
	}
}

// WithEngineClient injects a pre-built engine client, bypassing
// WithEngine. Intended for tests and custom transports.
func WithEngineClient(e engineClient) Option {
	return func(c *clientConfig) {
		c.engine = e
	}
}

// WithCacheStore sets the metadata snapshot store. Defaults to an
// in-process memory store.
func WithCacheStore(s cache.Store) Option {
	return func(c *clientConfig) {
		c.cacheStore = s
	}
}

// WithRedisCache persists metadata snapshots in Redis so fresh
// processes hydrate the definitions of the last run.
func WithRedisCache(addrs []string, username, password string, db int) Option {
	return func(c *clientConfig) {
		c.redisCfg = &cacheRedis.Config{
			Addrs:    addrs,
			Username: username,
			Password: password,
			DB:       db,
		}
	}
}

// WithIndexPattern sets the index naming pattern. It must contain the
// {language} placeholder exactly once.
func WithIndexPattern(pattern string) Option {
	return func(c *clientConfig) {
		c.indexPattern = pattern
	}
}

// WithLanguage registers a language bucket with its analyzers. An
// empty searchAnalyzer falls back to indexAnalyzer.
func WithLanguage(code, indexAnalyzer, searchAnalyzer string) Option {
	return func(c *clientConfig) {
		if c.languages == nil {
			c.languages = make(map[string]language.AnalyzerPair)
		}
		if searchAnalyzer == "" {
			searchAnalyzer = indexAnalyzer
		}
		c.languages[code] = language.AnalyzerPair{Index: indexAnalyzer, Search: searchAnalyzer}
	}
}

// WithUnlocalizedAnalyzers sets the analyzers of the unlocalized
// bucket. Defaults to the built-in analyzer when omitted.
func WithUnlocalizedAnalyzers(indexAnalyzer, searchAnalyzer string) Option {
	return func(c *clientConfig) {
		if searchAnalyzer == "" {
			searchAnalyzer = indexAnalyzer
		}
		c.unlocalized = language.AnalyzerPair{Index: indexAnalyzer, Search: searchAnalyzer}
	}
}

// WithAnalyzer registers a custom analyzer definition.
func WithAnalyzer(name string, definition map[string]any) Option {
	return func(c *clientConfig) {
		if c.analyzers == nil {
			c.analyzers = make(map[string]analysis.Definition)
		}
		c.analyzers[name] = definition
	}
}

// WithTokenFilter registers a custom token filter definition.
func WithTokenFilter(name string, definition map[string]any) Option {
	return func(c *clientConfig) {
		if c.filters == nil {
			c.filters = make(map[string]analysis.Definition)
		}
		c.filters[name] = definition
	}
}

// WithItems registers the indexed item definitions.
func WithItems(items ...*metadata.Item) Option {
	return func(c *clientConfig) {
		c.items = append(c.items, items...)
	}
}

// WithLoader registers a named entity loader.
func WithLoader(name string, l loader.Loader) Option {
	return func(c *clientConfig) {
		if c.loaders == nil {
			c.loaders = make(map[string]loader.Loader)
		}
		c.loaders[name] = l
	}
}

// WithFallbackLoader sets the loader used by items that name no
// loader. Defaults to an in-memory static loader.
func WithFallbackLoader(l loader.Loader) Option {
	return func(c *clientConfig) {
		c.fallback = l
	}
}

// WithBeforeIndexHook mutates every document body before indexing.
func WithBeforeIndexHook(hook engine.BeforeIndexHook) Option {
	return func(c *clientConfig) {
		c.hook = hook
	}
}

// WithFormat registers a value format processor. htmlPostProcess
// strips markup from the processed value before indexing.
func WithFormat(name string, processor accessor.Processor, htmlPostProcess bool) Option {
	return func(c *clientConfig) {
		if c.formats == nil {
			c.formats = make(map[string]formatDefinition)
		}
		c.formats[name] = formatDefinition{processor: processor, htmlPostProcess: htmlPostProcess}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
