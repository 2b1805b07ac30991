package config

import (
	"fmt"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
	"github.com/kailas-cloud/entdex/internal/index/language"
)

// BuildItems turns the declared items into metadata definitions.
func (c *Config) BuildItems() ([]*metadata.Item, error) {
	items := make([]*metadata.Item, 0, len(c.Items))
	for _, declared := range c.Items {
		item, err := metadata.NewItem(declared.Type, declared.Localized, declared.Loader, declared.AutoIndex)
		if err != nil {
			return nil, fmt.Errorf("items.%s: %w", declared.Type, err)
		}

		for _, f := range declared.Fields {
			field, err := metadata.NewField(f.Name, metadata.Kind(f.Kind), f.Weight, f.Format, f.Fragments)
			if err != nil {
				return nil, fmt.Errorf("items.%s.fields.%s: %w", declared.Type, f.Name, err)
			}
			if err := item.AddField(field); err != nil {
				return nil, fmt.Errorf("items.%s: %w", declared.Type, err)
			}
		}

		for _, f := range declared.Filters {
			filter, err := metadata.NewFilter(f.Accessor, f.Name, metadata.Kind(f.Kind))
			if err != nil {
				return nil, fmt.Errorf("items.%s.filters.%s: %w", declared.Type, f.Name, err)
			}
			if err := item.AddFilter(filter); err != nil {
				return nil, fmt.Errorf("items.%s: %w", declared.Type, err)
			}
		}

		items = append(items, item)
	}
	return items, nil
}

// BuildLanguages turns the search section into a language
// configuration.
func (c *Config) BuildLanguages() (*language.Configuration, error) {
	languages := make(map[string]language.AnalyzerPair, len(c.Search.Languages))
	for code, declared := range c.Search.Languages {
		pair := language.AnalyzerPair{
			Index:  declared.IndexAnalyzer,
			Search: declared.SearchAnalyzer,
		}
		if pair.Search == "" {
			pair.Search = pair.Index
		}
		languages[code] = pair
	}

	unlocalized := language.AnalyzerPair{
		Index:  c.Search.Unlocalized.IndexAnalyzer,
		Search: c.Search.Unlocalized.SearchAnalyzer,
	}
	if unlocalized.Search == "" {
		unlocalized.Search = unlocalized.Index
	}

	return language.NewConfiguration(c.Search.IndexPattern, languages, unlocalized)
}

// BuildAnalysis registers the declared analyzers and filters on top
// of the built-in defaults.
func (c *Config) BuildAnalysis() (*analysis.Configuration, error) {
	configuration := analysis.NewConfiguration()

	for name, definition := range c.Search.Filters {
		if err := configuration.RegisterFilter(name, analysis.Definition(definition)); err != nil {
			return nil, err
		}
	}
	for name, definition := range c.Search.Analyzers {
		if err := configuration.RegisterAnalyzer(name, analysis.Definition(definition)); err != nil {
			return nil, err
		}
	}
	return configuration, nil
}
