package result

import "sort"

// EntityHits groups the hits of one entity type, sorted by score
// descending.
type EntityHits struct {
	typeID   string
	language string
	hits     []*Hit
	maxScore float64
}

// NewEntityHits sorts hits by score descending and caches the top
// score. language is set only for localized types.
func NewEntityHits(typeID, language string, hits []*Hit) *EntityHits {
	sorted := append([]*Hit(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})

	maxScore := 0.0
	if len(sorted) > 0 {
		maxScore = sorted[0].Score()
	}

	return &EntityHits{
		typeID:   typeID,
		language: language,
		hits:     sorted,
		maxScore: maxScore,
	}
}

// TypeID returns the entity type these hits belong to.
func (e *EntityHits) TypeID() string { return e.typeID }

// Language returns the language bucket, empty for unlocalized types.
func (e *EntityHits) Language() string { return e.language }

// Hits returns the hits sorted by score descending.
func (e *EntityHits) Hits() []*Hit { return e.hits }

// MaxScore returns the top hit's score, 0 when empty.
func (e *EntityHits) MaxScore() float64 { return e.maxScore }

// Len returns the number of hits.
func (e *EntityHits) Len() int { return len(e.hits) }

// Result is the final grouped outcome of one search call.
type Result struct {
	byType   map[string]*EntityHits
	typeIDs  []string
	total    int
	maxScore float64
}

// NewResult groups entity hits by type and computes the cumulative
// total and overall max score. Type order follows the given slice.
func NewResult(groups []*EntityHits) *Result {
	r := &Result{byType: make(map[string]*EntityHits, len(groups))}
	for _, group := range groups {
		if group.Len() == 0 {
			continue
		}
		r.byType[group.TypeID()] = group
		r.typeIDs = append(r.typeIDs, group.TypeID())
		r.total += group.Len()
		if group.MaxScore() > r.maxScore {
			r.maxScore = group.MaxScore()
		}
	}
	return r
}

// ByType returns the hits for one entity type, nil when absent.
func (r *Result) ByType(typeID string) *EntityHits { return r.byType[typeID] }

// TypeIDs returns the types present in the result, in insertion
// order.
func (r *Result) TypeIDs() []string { return r.typeIDs }

// Total returns the cumulative hit count across all types.
func (r *Result) Total() int { return r.total }

// MaxScore returns the highest score across all types.
func (r *Result) MaxScore() float64 { return r.maxScore }

// IsEmpty reports whether the result has no hits.
func (r *Result) IsEmpty() bool { return r.total == 0 }
