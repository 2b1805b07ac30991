package engine

// Hit is one raw engine result.
type Hit struct {
	// Type is the item type id recovered from the document id.
	Type string
	// EntityID is the numeric id of the source entity.
	EntityID int64
	// Score is the engine relevance score.
	Score float64
	// Highlights maps engine field names to highlighted snippets.
	Highlights map[string][]string
}

// Response is the decoded result of one search request.
type Response struct {
	Total    int64
	MaxScore float64
	Hits     []Hit
}
