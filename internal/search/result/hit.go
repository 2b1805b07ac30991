// Package result accumulates raw engine hits into deduplicated,
// scored, per-type grouped search results.
package result

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/entdex/internal/domain"
)

// Hit is one matched entity with its relevance score and highlighted
// snippets per engine field.
type Hit struct {
	entity     domain.Searchable
	score      float64
	highlights map[string][]string
}

// NewHit creates a hit for a resolved entity.
func NewHit(entity domain.Searchable, score float64, highlights map[string][]string) *Hit {
	copied := make(map[string][]string, len(highlights))
	for field, snippets := range highlights {
		copied[field] = append([]string(nil), snippets...)
	}
	return &Hit{entity: entity, score: score, highlights: copied}
}

// Entity returns the matched entity.
func (h *Hit) Entity() domain.Searchable { return h.entity }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Highlights returns the snippets for one engine field.
func (h *Hit) Highlights(field string) []string { return h.highlights[field] }

// AllHighlights returns every snippet, ordered by field name.
func (h *Hit) AllHighlights() []string {
	fields := make([]string, 0, len(h.highlights))
	for field := range h.highlights {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []string
	for _, field := range fields {
		out = append(out, h.highlights[field]...)
	}
	return out
}

// Merge folds other into h. Highlights are unioned per field
// preserving order; the merged score keeps h's priority, adding half
// of other's so repeated matches boost without double-counting.
func (h *Hit) Merge(other *Hit) error {
	if h.entity.SearchType() != other.entity.SearchType() || h.entity.SearchID() != other.entity.SearchID() {
		return fmt.Errorf(
			"cannot merge hits for different entities: %s#%d and %s#%d",
			h.entity.SearchType(), h.entity.SearchID(),
			other.entity.SearchType(), other.entity.SearchID(),
		)
	}

	for field, snippets := range other.highlights {
		h.highlights[field] = append(h.highlights[field], snippets...)
	}
	h.score += other.score / 2
	return nil
}
