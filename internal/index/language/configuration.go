// Package language maps language codes to index names and analyzer
// pairs. The empty code stands for the unlocalized bucket.
package language

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/index/analysis"
)

const (
	// Placeholder marks the spot in an index name pattern where the
	// language code is substituted.
	Placeholder = "{language}"

	// UnlocalizedCode is the sentinel substituted for the empty
	// language code.
	UnlocalizedCode = "unlocalized"
)

// AnalyzerPair names the analyzer used at index time and the one used
// at query time.
type AnalyzerPair struct {
	Index  string
	Search string
}

// Configuration resolves language codes to index names and analyzers.
type Configuration struct {
	indexPattern string
	languages    map[string]AnalyzerPair
	unlocalized  AnalyzerPair
}

// NewConfiguration validates the index pattern and builds the
// resolver. The pattern must contain the language placeholder exactly
// once. An empty unlocalized pair falls back to the built-in default
// analyzer for both sides.
func NewConfiguration(indexPattern string, languages map[string]AnalyzerPair, unlocalized AnalyzerPair) (*Configuration, error) {
	if n := strings.Count(indexPattern, Placeholder); n != 1 {
		return nil, fmt.Errorf(
			"%w: index pattern %q must contain %q exactly once, found %d times",
			domain.ErrInvalidConfiguration, indexPattern, Placeholder, n,
		)
	}

	if unlocalized == (AnalyzerPair{}) {
		unlocalized = AnalyzerPair{
			Index:  analysis.DefaultAnalyzer,
			Search: analysis.DefaultAnalyzer,
		}
	}

	copied := make(map[string]AnalyzerPair, len(languages))
	for code, pair := range languages {
		copied[code] = pair
	}

	return &Configuration{
		indexPattern: indexPattern,
		languages:    copied,
		unlocalized:  unlocalized,
	}, nil
}

// IndexName substitutes the placeholder with code, or with the
// unlocalized sentinel when code is empty.
func (c *Configuration) IndexName(code string) string {
	if code == "" {
		code = UnlocalizedCode
	}
	return strings.Replace(c.indexPattern, Placeholder, code, 1)
}

// IndexAnalyzer returns the indexing analyzer for code.
func (c *Configuration) IndexAnalyzer(code string) (string, error) {
	pair, err := c.pair(code)
	if err != nil {
		return "", err
	}
	return pair.Index, nil
}

// SearchAnalyzer returns the query-time analyzer for code.
func (c *Configuration) SearchAnalyzer(code string) (string, error) {
	pair, err := c.pair(code)
	if err != nil {
		return "", err
	}
	return pair.Search, nil
}

func (c *Configuration) pair(code string) (AnalyzerPair, error) {
	if code == "" {
		return c.unlocalized, nil
	}
	pair, ok := c.languages[code]
	if !ok {
		return AnalyzerPair{}, fmt.Errorf(
			"%w: no language configuration available for %q",
			domain.ErrInvalidConfiguration, code,
		)
	}
	return pair, nil
}

// AllLanguages returns every configured code with the unlocalized
// empty code first.
func (c *Configuration) AllLanguages() []string {
	codes := make([]string, 0, len(c.languages))
	for code := range c.languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return append([]string{""}, codes...)
}

// IndexForEntity returns the index an entity belongs to, picking the
// language bucket when the entity is localized.
func (c *Configuration) IndexForEntity(entity domain.Searchable) string {
	if localized, ok := entity.(domain.LocalizedSearchable); ok {
		return c.IndexName(localized.SearchLanguage())
	}
	return c.IndexName("")
}
