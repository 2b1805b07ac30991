package metadata

// Snapshot types form the persisted representation of the metadata
// registry. They carry no behavior; hydration goes through the
// Reconstruct functions so a snapshot round-trip skips re-validation.

// FieldSnapshot is the serialized form of a Field.
type FieldSnapshot struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Weight    int    `json:"weight"`
	Format    string `json:"format"`
	Fragments int    `json:"fragments"`
}

// FilterSnapshot is the serialized form of a Filter.
type FilterSnapshot struct {
	Accessor string `json:"accessor"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
}

// ItemSnapshot is the serialized form of an Item.
type ItemSnapshot struct {
	TypeID      string           `json:"type_id"`
	Localized   bool             `json:"localized"`
	Loader      string           `json:"loader,omitempty"`
	AutoIndexed bool             `json:"auto_indexed"`
	Fields      []FieldSnapshot  `json:"fields,omitempty"`
	Filters     []FilterSnapshot `json:"filters,omitempty"`
}

// Snapshot returns the serialized form of the item.
func (i *Item) Snapshot() ItemSnapshot {
	s := ItemSnapshot{
		TypeID:      i.typeID,
		Localized:   i.localized,
		Loader:      i.loader,
		AutoIndexed: i.autoIndexed,
	}
	for _, f := range i.fields {
		s.Fields = append(s.Fields, FieldSnapshot{
			Name:      f.Name(),
			Kind:      f.Kind(),
			Weight:    f.Weight(),
			Format:    f.Format(),
			Fragments: f.Fragments(),
		})
	}
	for _, f := range i.filters {
		s.Filters = append(s.Filters, FilterSnapshot{
			Accessor: f.Accessor(),
			Name:     f.Name(),
			Kind:     f.Kind(),
		})
	}
	return s
}

// FromSnapshot creates an Item from its serialized form without validation.
func FromSnapshot(s ItemSnapshot) *Item {
	item := &Item{
		typeID:      s.TypeID,
		localized:   s.Localized,
		loader:      s.Loader,
		autoIndexed: s.AutoIndexed,
		fieldNames:  make(map[string]bool, len(s.Fields)),
		filterNames: make(map[string]bool, len(s.Filters)),
	}
	for _, f := range s.Fields {
		field := ReconstructField(f.Name, f.Kind, f.Weight, f.Format, f.Fragments)
		item.fields = append(item.fields, field)
		item.fieldNames[field.EngineName()] = true
	}
	for _, f := range s.Filters {
		filter := ReconstructFilter(f.Accessor, f.Name, f.Kind)
		item.filters = append(item.filters, filter)
		item.filterNames[filter.EngineName()] = true
	}
	return item
}
