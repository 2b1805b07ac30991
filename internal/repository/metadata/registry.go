// Package metadata holds the process-wide registry of indexed item
// definitions, persisted as a snapshot in a key-value cache so a fresh
// process starts with the definitions of the last run.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/cache"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

const cacheKey = "entdex:metadata"

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Registry is the authoritative collection of item definitions.
//
// Reads are lock-free via an atomically published map. Writes
// serialize on a mutex and persist the full snapshot before
// publishing the new state.
type Registry struct {
	store  store
	logger *zap.Logger

	mu          sync.Mutex
	items       atomic.Pointer[map[string]*metadata.Item]
	initialized atomic.Bool
}

// NewRegistry creates a registry and hydrates it from the cache.
// A cache miss leaves the registry empty and uninitialized; a read
// failure is logged and treated the same way.
func NewRegistry(ctx context.Context, s store, logger *zap.Logger) *Registry {
	r := &Registry{store: s, logger: logger}
	empty := make(map[string]*metadata.Item)
	r.items.Store(&empty)
	r.hydrate(ctx)
	return r
}

func (r *Registry) hydrate(ctx context.Context) {
	data, err := r.store.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("Failed to read metadata snapshot", zap.Error(err))
		}
		return
	}

	var snapshots []metadata.ItemSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		r.logger.Warn("Failed to decode metadata snapshot", zap.Error(err))
		return
	}

	items := make(map[string]*metadata.Item, len(snapshots))
	for _, s := range snapshots {
		item := metadata.FromSnapshot(s)
		items[item.TypeID()] = item
	}

	r.items.Store(&items)
	r.initialized.Store(true)
	r.logger.Info("Hydrated metadata registry from cache", zap.Int("items", len(items)))
}

// Add registers or replaces an item definition and persists the
// updated snapshot.
func (r *Registry) Add(ctx context.Context, item *metadata.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.items.Load()
	next := make(map[string]*metadata.Item, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[item.TypeID()] = item

	if err := r.persist(ctx, next); err != nil {
		return err
	}

	r.items.Store(&next)
	r.initialized.Store(true)
	return nil
}

// Clear removes every definition and the persisted snapshot. The
// registry becomes uninitialized until the next Add.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, cacheKey); err != nil {
		return fmt.Errorf("clear metadata snapshot: %w", err)
	}

	empty := make(map[string]*metadata.Item)
	r.items.Store(&empty)
	r.initialized.Store(false)
	return nil
}

func (r *Registry) persist(ctx context.Context, items map[string]*metadata.Item) error {
	list := metadata.NewList(sortedItems(items))
	snapshots := make([]metadata.ItemSnapshot, 0, list.Len())
	for _, item := range list.All() {
		snapshots = append(snapshots, item.Snapshot())
	}

	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("encode metadata snapshot: %w", err)
	}
	if err := r.store.Set(ctx, cacheKey, data); err != nil {
		return fmt.Errorf("persist metadata snapshot: %w", err)
	}
	return nil
}

// Get returns the item definition for typeID.
func (r *Registry) Get(typeID string) (*metadata.Item, error) {
	items := *r.items.Load()
	item, ok := items[typeID]
	if !ok {
		return nil, &domain.UnknownItemError{TypeID: typeID}
	}
	return item, nil
}

// AllItems returns every registered item as an immutable list,
// ordered by type id.
func (r *Registry) AllItems() metadata.List {
	items := *r.items.Load()
	return metadata.NewList(sortedItems(items))
}

// IsInitialized reports whether the registry holds a populated
// snapshot. False means definitions must be rebuilt before indexes
// or searches can be trusted.
func (r *Registry) IsInitialized() bool {
	return r.initialized.Load()
}

func sortedItems(items map[string]*metadata.Item) []*metadata.Item {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*metadata.Item, 0, len(items))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}
