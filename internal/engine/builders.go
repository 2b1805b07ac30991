package engine

import (
	"sort"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
	"github.com/kailas-cloud/entdex/internal/index/language"
)

// NewCreateIndex builds the creation request for one language bucket.
// The mapping merges every item's fields into a single property set;
// engine field names are prefixed by accessor kind, so identical
// names map identically across items.
func NewCreateIndex(
	langCode string,
	items metadata.List,
	languages *language.Configuration,
	analyzers *analysis.Configuration,
) (*CreateIndexRequest, error) {
	indexAnalyzerName, err := languages.IndexAnalyzer(langCode)
	if err != nil {
		return nil, err
	}
	searchAnalyzerName, err := languages.SearchAnalyzer(langCode)
	if err != nil {
		return nil, err
	}

	indexAnalyzer, err := analyzers.Analyzer(indexAnalyzerName)
	if err != nil {
		return nil, err
	}

	analyzerDefinitions := map[string]any{
		indexAnalyzerName: indexAnalyzer,
	}
	if searchAnalyzerName != indexAnalyzerName {
		searchAnalyzer, err := analyzers.Analyzer(searchAnalyzerName)
		if err != nil {
			return nil, err
		}
		analyzerDefinitions[searchAnalyzerName] = searchAnalyzer
	}

	filterDefinitions := map[string]any{}
	for _, definition := range analyzerDefinitions {
		collectCustomFilters(definition.(analysis.Definition), analyzers, filterDefinitions)
	}

	properties := map[string]any{
		EntityTimestampField: map[string]any{
			"type":   "date",
			"format": MappingTimestampFormat,
		},
		EntityIDField: map[string]any{
			"type": "integer",
		},
	}
	for _, item := range items.All() {
		for _, field := range item.Fields() {
			properties[field.EngineName()] = map[string]any{
				"type":            "text",
				"analyzer":        indexAnalyzerName,
				"search_analyzer": searchAnalyzerName,
				"term_vector":     "with_positions_offsets",
			}
		}
		for _, filter := range item.Filters() {
			properties[filter.EngineName()] = map[string]any{
				"type": "keyword",
			}
		}
	}

	return &CreateIndexRequest{
		index: languages.IndexName(langCode),
		Body: map[string]any{
			"settings": map[string]any{
				"index": map[string]any{
					"number_of_shards":   1,
					"number_of_replicas": 1,
				},
				"analysis": map[string]any{
					"analyzer": analyzerDefinitions,
					"filter":   filterDefinitions,
				},
			},
			"mappings": map[string]any{
				"_source":    map[string]any{"enabled": true},
				"properties": properties,
			},
		},
	}, nil
}

// collectCustomFilters resolves the filter names an analyzer
// references. Names without a registered definition are engine
// built-ins and are skipped.
func collectCustomFilters(analyzer analysis.Definition, analyzers *analysis.Configuration, out map[string]any) {
	for _, name := range filterNames(analyzer["filter"]) {
		if definition, found := analyzers.Filter(name); found {
			out[name] = definition
		}
	}
}

func filterNames(value any) []string {
	switch value := value.(type) {
	case []string:
		return value
	case []any:
		names := make([]string, 0, len(value))
		for _, v := range value {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
		return names
	default:
		return nil
	}
}

// NewDocument builds the indexing request for one entity. An optional
// hook may rewrite the body before it is sent.
func NewDocument(
	index string,
	entity domain.Searchable,
	item *metadata.Item,
	values *accessor.Values,
	hook BeforeIndexHook,
) *DocumentRequest {
	body := map[string]any{
		EntityIDField:        entity.SearchID(),
		EntityTimestampField: entity.SearchModifiedAt().Format(TimestampFormat),
	}

	for _, field := range item.Fields() {
		body[field.EngineName()] = values.GetValue(entity, field)
	}
	for _, filter := range item.Filters() {
		if value, ok := values.GetRawValue(entity, filter); ok {
			body[filter.EngineName()] = value
		}
	}

	if hook != nil {
		body = hook(body, entity)
	}

	return &DocumentRequest{
		index:   index,
		docType: item.TypeID(),
		id:      DocumentID(item.TypeID(), entity.SearchID()),
		Body:    body,
	}
}

// NewSearch builds the query request for one item. Term filters
// restrict results without affecting score.
func NewSearch(index, query string, item *metadata.Item, termFilters map[string]string) *SearchRequest {
	should := make([]any, 0, len(item.Fields()))
	highlightFields := map[string]any{}
	for _, field := range item.Fields() {
		should = append(should, map[string]any{
			"match": map[string]any{
				field.EngineName(): map[string]any{
					"query": query,
					"boost": field.Weight(),
				},
			},
		})
		highlightFields[field.EngineName()] = map[string]any{
			"number_of_fragments": field.Fragments(),
		}
	}

	boolQuery := map[string]any{
		"should":               should,
		"minimum_should_match": 1,
	}
	if len(termFilters) > 0 {
		names := make([]string, 0, len(termFilters))
		for name := range termFilters {
			names = append(names, name)
		}
		sort.Strings(names)

		filters := make([]any, 0, len(names))
		for _, name := range names {
			filters = append(filters, map[string]any{
				"term": map[string]any{
					"filter-" + name: termFilters[name],
				},
			})
		}
		boolQuery["filter"] = filters
	}

	return &SearchRequest{
		index:   index,
		docType: item.TypeID(),
		Body: map[string]any{
			"_source": []string{EntityIDField},
			"query": map[string]any{
				"bool": boolQuery,
			},
			"highlight": map[string]any{
				"pre_tags":  []string{HighlightPreTag},
				"post_tags": []string{HighlightPostTag},
				"fields":    highlightFields,
			},
		},
	}
}
