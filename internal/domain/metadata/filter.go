package metadata

import "fmt"

// Filter is an immutable value object describing one exact-match filter
// term of a search item.
type Filter struct {
	accessor string
	name     string
	kind     Kind
}

// NewFilter validates and creates a Filter.
// Accessor is the entity accessor name, name the user-facing term key.
func NewFilter(accessor, name string, kind Kind) (Filter, error) {
	if accessor == "" {
		return Filter{}, fmt.Errorf("filter accessor is required")
	}
	if name == "" {
		return Filter{}, fmt.Errorf("filter name is required for accessor %q", accessor)
	}
	if !kind.IsValid() {
		return Filter{}, fmt.Errorf("invalid accessor kind %q for filter %q", kind, name)
	}
	return Filter{accessor: accessor, name: name, kind: kind}, nil
}

// ReconstructFilter creates a Filter without validation (snapshot hydration).
func ReconstructFilter(accessor, name string, kind Kind) Filter {
	return Filter{accessor: accessor, name: name, kind: kind}
}

// Accessor returns the accessor name on the entity.
func (f Filter) Accessor() string { return f.accessor }

// Name returns the user-facing filter term key.
func (f Filter) Name() string { return f.name }

// Kind returns the accessor kind.
func (f Filter) Kind() Kind { return f.kind }

// EngineName returns the engine-facing field name, "filter-{name}".
func (f Filter) EngineName() string {
	return "filter-" + f.name
}
