package metadata

import (
	"fmt"

	"github.com/kailas-cloud/entdex/internal/domain"
)

// Item is the metadata descriptor for one searchable entity type.
// It is mutable only during metadata build (AddField/AddFilter) and owned
// exclusively by the registry afterwards.
type Item struct {
	typeID      string
	localized   bool
	loader      string
	autoIndexed bool

	fields      []Field
	fieldNames  map[string]bool
	filters     []Filter
	filterNames map[string]bool
}

// NewItem validates and creates an Item.
// TypeID is the stable engine-facing type name. Loader optionally names a
// registered entity loader; empty selects the default loader.
func NewItem(typeID string, localized bool, loader string, autoIndexed bool) (*Item, error) {
	if typeID == "" {
		return nil, fmt.Errorf("item type id is required")
	}
	return &Item{
		typeID:      typeID,
		localized:   localized,
		loader:      loader,
		autoIndexed: autoIndexed,
		fieldNames:  make(map[string]bool),
		filterNames: make(map[string]bool),
	}, nil
}

// TypeID returns the engine-facing type name.
func (i *Item) TypeID() string { return i.typeID }

// Localized reports whether documents of this type live in per-language indexes.
func (i *Item) Localized() bool { return i.localized }

// Loader returns the named entity loader override, empty for the default.
func (i *Item) Loader() string { return i.loader }

// AutoIndexed reports whether entity lifecycle events trigger reindexing.
func (i *Item) AutoIndexed() bool { return i.autoIndexed }

// Fields returns the content fields in registration order.
func (i *Item) Fields() []Field { return i.fields }

// Filters returns the filter terms in registration order.
func (i *Item) Filters() []Filter { return i.filters }

// AddField registers a content field.
// Fields are unique by engine name, so two fields may share an accessor
// name as long as their kinds differ.
func (i *Item) AddField(f Field) error {
	name := f.EngineName()
	if i.fieldNames[name] {
		return &domain.DuplicateFieldError{Field: name, TypeID: i.typeID}
	}
	i.fieldNames[name] = true
	i.fields = append(i.fields, f)
	return nil
}

// AddFilter registers a filter term, unique by engine name.
func (i *Item) AddFilter(f Filter) error {
	name := f.EngineName()
	if i.filterNames[name] {
		return &domain.DuplicateFilterError{Filter: name, TypeID: i.typeID}
	}
	i.filterNames[name] = true
	i.filters = append(i.filters, f)
	return nil
}
