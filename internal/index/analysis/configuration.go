// Package analysis holds the registry of named analyzers and token
// filters that are written into index settings at creation time.
package analysis

import (
	"fmt"

	"github.com/kailas-cloud/entdex/internal/domain"
)

// Names of the built-in definitions seeded into every Configuration.
const (
	DefaultFilterStemmer = "default.filter.de"
	DefaultFilterShingle = "default.filter.shingle"
	DefaultAnalyzer      = "default.analyzer.de"
)

// Definition is an engine-native analyzer or filter definition blob.
type Definition map[string]any

// Configuration maps names to analyzer and filter definitions.
//
// Unknown analyzer lookups are errors; unknown filter lookups are not,
// since unregistered filter names are assumed to be engine built-ins.
type Configuration struct {
	filters   map[string]Definition
	analyzers map[string]Definition
}

// NewConfiguration creates a configuration seeded with the built-in
// defaults.
func NewConfiguration() *Configuration {
	return &Configuration{
		filters: map[string]Definition{
			DefaultFilterStemmer: {
				"type": "stemmer",
				"name": "light_german",
			},
			DefaultFilterShingle: {
				"type":             "shingle",
				"min_shingle_size": 2,
				"max_shingle_size": 5,
			},
		},
		analyzers: map[string]Definition{
			DefaultAnalyzer: {
				"type":      "custom",
				"tokenizer": "lowercase",
				"filter": []string{
					"standard",
					"lowercase",
					DefaultFilterStemmer,
					"asciifolding",
					DefaultFilterShingle,
				},
			},
		},
	}
}

// RegisterFilter adds a named filter definition.
func (c *Configuration) RegisterFilter(name string, definition Definition) error {
	if _, exists := c.filters[name]; exists {
		return fmt.Errorf("%w: filter %q is already registered", domain.ErrInvalidConfiguration, name)
	}
	c.filters[name] = definition
	return nil
}

// RegisterAnalyzer adds a named analyzer definition.
func (c *Configuration) RegisterAnalyzer(name string, definition Definition) error {
	if _, exists := c.analyzers[name]; exists {
		return fmt.Errorf("%w: analyzer %q is already registered", domain.ErrInvalidConfiguration, name)
	}
	c.analyzers[name] = definition
	return nil
}

// Analyzer returns the definition registered under name.
func (c *Configuration) Analyzer(name string) (Definition, error) {
	definition, ok := c.analyzers[name]
	if !ok {
		return nil, fmt.Errorf("%w: no analyzer registered with name %q", domain.ErrInvalidConfiguration, name)
	}
	return definition, nil
}

// Filter returns the definition registered under name. A missing name
// is reported via ok=false so callers can fall back to engine
// built-ins.
func (c *Configuration) Filter(name string) (Definition, bool) {
	definition, ok := c.filters[name]
	return definition, ok
}

// Analyzers returns all registered analyzer definitions by name.
func (c *Configuration) Analyzers() map[string]Definition {
	out := make(map[string]Definition, len(c.analyzers))
	for name, definition := range c.analyzers {
		out[name] = definition
	}
	return out
}
