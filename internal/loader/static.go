package loader

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

// Record is a generic in-memory entity. It backs config-declared
// items that have no host application behind them.
type Record struct {
	Type       string
	ID         int64
	Language   string
	ModifiedAt time.Time
	Values     map[string]any
}

func (r Record) SearchType() string              { return r.Type }
func (r Record) SearchID() int64                 { return r.ID }
func (r Record) SearchModifiedAt() time.Time     { return r.ModifiedAt }
func (r Record) SearchValue(accessor string) any { return r.Values[accessor] }

// LocalizedRecord is a Record routed to a language bucket.
type LocalizedRecord struct {
	Record
}

func (r LocalizedRecord) SearchLanguage() string { return r.Language }

// Static is an in-memory Loader holding records per item type.
type Static struct {
	mu      sync.RWMutex
	records map[string]map[int64]domain.Searchable
}

// NewStatic creates an empty static loader.
func NewStatic() *Static {
	return &Static{records: make(map[string]map[int64]domain.Searchable)}
}

// Put stores or replaces an entity.
func (s *Static) Put(entity domain.Searchable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[entity.SearchType()]
	if !ok {
		byID = make(map[int64]domain.Searchable)
		s.records[entity.SearchType()] = byID
	}
	byID[entity.SearchID()] = entity
}

// Remove drops an entity.
func (s *Static) Remove(typeID string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records[typeID], id)
}

// Load returns the stored entities for item, all of them when ids is
// nil.
func (s *Static) Load(_ context.Context, item *metadata.Item, ids []int64) (map[int64]domain.Searchable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.records[item.TypeID()]
	out := make(map[int64]domain.Searchable)

	if ids == nil {
		for id, entity := range byID {
			out[id] = entity
		}
		return out, nil
	}

	for _, id := range ids {
		if entity, ok := byID[id]; ok {
			out[id] = entity
		}
	}
	return out, nil
}
