package metadata

import "fmt"

// Kind is the accessor kind of a field or filter.
type Kind string

// Accessor kind constants.
const (
	// Property reads a plain attribute off the entity.
	Property Kind = "property"
	// Method reads a computed value off the entity.
	Method Kind = "method"
)

// IsValid checks if the accessor kind is supported.
func (k Kind) IsValid() bool {
	return k == Property || k == Method
}

// DefaultFragments is the highlight fragment count used when none is declared.
const DefaultFragments = 3

// FormatPlain is the default content format.
const FormatPlain = "plain"

// Field is an immutable value object describing one indexed content field
// of a search item.
type Field struct {
	name      string
	kind      Kind
	weight    int
	format    string
	fragments int
}

// NewField validates and creates a Field.
// Name must be non-empty and kind must be property or method. Weight
// defaults to 1, format to "plain" and the fragment count to 3.
func NewField(name string, kind Kind, weight int, format string, fragments int) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if !kind.IsValid() {
		return Field{}, fmt.Errorf("invalid accessor kind %q for field %q", kind, name)
	}
	if weight == 0 {
		weight = 1
	}
	if weight < 1 {
		return Field{}, fmt.Errorf("field %q weight must be at least 1, got %d", name, weight)
	}
	if format == "" {
		format = FormatPlain
	}
	if fragments <= 0 {
		fragments = DefaultFragments
	}
	return Field{name: name, kind: kind, weight: weight, format: format, fragments: fragments}, nil
}

// ReconstructField creates a Field without validation (snapshot hydration).
func ReconstructField(name string, kind Kind, weight int, format string, fragments int) Field {
	return Field{name: name, kind: kind, weight: weight, format: format, fragments: fragments}
}

// Name returns the accessor name on the entity.
func (f Field) Name() string { return f.name }

// Kind returns the accessor kind.
func (f Field) Kind() Kind { return f.kind }

// Weight returns the query-time boost.
func (f Field) Weight() int { return f.weight }

// Format returns the content format selecting a format processor.
func (f Field) Format() string { return f.format }

// Fragments returns the highlight fragment count.
func (f Field) Fragments() int { return f.fragments }

// EngineName returns the engine-facing field name, "{kind}-{name}".
func (f Field) EngineName() string {
	return string(f.kind) + "-" + f.name
}
