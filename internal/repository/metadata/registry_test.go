package metadata

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/cache/memory"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

func newTestItem(t *testing.T, typeID string) *metadata.Item {
	t.Helper()
	item, err := metadata.NewItem(typeID, false, "", false)
	if err != nil {
		t.Fatalf("NewItem(%q): %v", typeID, err)
	}
	field, err := metadata.NewField("title", metadata.Property, 2, "plain", 3)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := item.AddField(field); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	return item
}

func TestRegistry_EmptyStart(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, memory.NewStore(), zap.NewNop())

	if r.IsInitialized() {
		t.Error("IsInitialized() = true, want false for empty cache")
	}
	if r.AllItems().Len() != 0 {
		t.Errorf("AllItems().Len() = %d, want 0", r.AllItems().Len())
	}
	_, err := r.Get("article")
	if !errors.Is(err, domain.ErrUnknownItem) {
		t.Errorf("Get error = %v, want ErrUnknownItem", err)
	}
}

func TestRegistry_AddAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, memory.NewStore(), zap.NewNop())

	if err := r.Add(ctx, newTestItem(t, "article")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !r.IsInitialized() {
		t.Error("IsInitialized() = false after Add")
	}

	item, err := r.Get("article")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.TypeID() != "article" {
		t.Errorf("TypeID() = %q, want %q", item.TypeID(), "article")
	}
}

func TestRegistry_HydratesAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := NewRegistry(ctx, store, zap.NewNop())
	if err := first.Add(ctx, newTestItem(t, "article")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := first.Add(ctx, newTestItem(t, "page")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh registry on the same store sees the persisted snapshot.
	second := NewRegistry(ctx, store, zap.NewNop())
	if !second.IsInitialized() {
		t.Fatal("IsInitialized() = false after hydration")
	}
	if got := second.AllItems().TypeIDs(); !reflect.DeepEqual(got, []string{"article", "page"}) {
		t.Errorf("TypeIDs() = %v, want [article page]", got)
	}

	item, err := second.Get("article")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(item.Fields()) != 1 || item.Fields()[0].EngineName() != "property-title" {
		t.Errorf("hydrated fields = %v", item.Fields())
	}
}

func TestRegistry_Clear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := NewRegistry(ctx, store, zap.NewNop())

	if err := r.Add(ctx, newTestItem(t, "article")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if r.IsInitialized() {
		t.Error("IsInitialized() = true after Clear")
	}
	if r.AllItems().Len() != 0 {
		t.Errorf("AllItems().Len() = %d, want 0", r.AllItems().Len())
	}

	// The snapshot is gone from the store too.
	fresh := NewRegistry(ctx, store, zap.NewNop())
	if fresh.IsInitialized() {
		t.Error("fresh registry hydrated after Clear")
	}
}

func TestRegistry_CorruptSnapshotIgnored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	if err := store.Set(ctx, "entdex:metadata", []byte("not json")); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(ctx, store, zap.NewNop())
	if r.IsInitialized() {
		t.Error("IsInitialized() = true for corrupt snapshot")
	}
}
