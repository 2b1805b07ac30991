package metadata

import "github.com/kailas-cloud/entdex/internal/domain"

// List is an immutable, ordered collection of search items.
type List struct {
	items  []*Item
	byType map[string]*Item
}

// NewList creates a List. Order is preserved for deterministic output.
func NewList(items []*Item) List {
	byType := make(map[string]*Item, len(items))
	for _, item := range items {
		byType[item.TypeID()] = item
	}
	return List{items: items, byType: byType}
}

// All returns the items in order.
func (l List) All() []*Item { return l.items }

// Len returns the number of items.
func (l List) Len() int { return len(l.items) }

// IsEmpty reports whether the list holds no items.
func (l List) IsEmpty() bool { return len(l.items) == 0 }

// ByType looks up an item by type id.
func (l List) ByType(typeID string) (*Item, bool) {
	item, ok := l.byType[typeID]
	return item, ok
}

// TypeIDs returns the type ids of all items in order.
func (l List) TypeIDs() []string {
	ids := make([]string, len(l.items))
	for i, item := range l.items {
		ids[i] = item.TypeID()
	}
	return ids
}

// Localized returns the sublist of localized items.
func (l List) Localized() List {
	return l.filter(true)
}

// Unlocalized returns the sublist of unlocalized items.
func (l List) Unlocalized() List {
	return l.filter(false)
}

func (l List) filter(localized bool) List {
	var filtered []*Item
	for _, item := range l.items {
		if item.Localized() == localized {
			filtered = append(filtered, item)
		}
	}
	return NewList(filtered)
}

// FilterByType restricts the list to the requested type ids.
// An empty request means no filter and returns the list unchanged; a
// request naming an unregistered type fails with UnknownItemError.
func (l List) FilterByType(typeIDs []string) (List, error) {
	if len(typeIDs) == 0 {
		return l, nil
	}
	filtered := make([]*Item, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		item, ok := l.byType[typeID]
		if !ok {
			return List{}, &domain.UnknownItemError{TypeID: typeID}
		}
		filtered = append(filtered, item)
	}
	return NewList(filtered), nil
}
