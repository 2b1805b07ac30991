package result

import "fmt"

// Builder accumulates hits and merges duplicates of the same entity
// across multiple requests, preserving first-seen order.
type Builder struct {
	order []string
	hits  map[string]*Hit
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{hits: make(map[string]*Hit)}
}

// Add feeds one hit in. A hit for an already-seen entity merges into
// the existing one.
func (b *Builder) Add(hit *Hit) error {
	key := fmt.Sprintf("%s--%d", hit.Entity().SearchType(), hit.Entity().SearchID())

	existing, ok := b.hits[key]
	if !ok {
		b.order = append(b.order, key)
		b.hits[key] = hit
		return nil
	}
	return existing.Merge(hit)
}

// Hits returns the merged hits in first-seen order.
func (b *Builder) Hits() []*Hit {
	out := make([]*Hit, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.hits[key])
	}
	return out
}
