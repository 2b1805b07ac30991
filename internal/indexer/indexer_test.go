package indexer

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/index/language"
)

type mockRegistry struct {
	items map[string]*metadata.Item
}

func (m *mockRegistry) Get(typeID string) (*metadata.Item, error) {
	item, ok := m.items[typeID]
	if !ok {
		return nil, &domain.UnknownItemError{TypeID: typeID}
	}
	return item, nil
}

type mockEngine struct {
	sent []engine.Request
	bulk [][]*engine.DocumentRequest
}

func (m *mockEngine) Send(_ context.Context, request engine.Request) (*engine.Response, error) {
	m.sent = append(m.sent, request)
	return nil, nil
}

func (m *mockEngine) BulkIndex(_ context.Context, requests []*engine.DocumentRequest) error {
	m.bulk = append(m.bulk, requests)
	return nil
}

type entityStub struct {
	typeID   string
	id       int64
	language string
	values   map[string]any
}

func (e entityStub) SearchType() string              { return e.typeID }
func (e entityStub) SearchID() int64                 { return e.id }
func (e entityStub) SearchModifiedAt() time.Time     { return time.Time{} }
func (e entityStub) SearchValue(accessor string) any { return e.values[accessor] }

type localizedStub struct{ entityStub }

func (e localizedStub) SearchLanguage() string { return e.language }

func newTestIndexer(t *testing.T, autoIndexed bool) (*Indexer, *mockEngine, *mockRegistry) {
	t.Helper()

	item, err := metadata.NewItem("article", false, "", autoIndexed)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	field, err := metadata.NewField("title", metadata.Property, 1, "plain", 3)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := item.AddField(field); err != nil {
		t.Fatal(err)
	}

	localizedItem, err := metadata.NewItem("page", true, "", autoIndexed)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	languages, err := language.NewConfiguration("app-{language}", map[string]language.AnalyzerPair{
		"de": {Index: "a", Search: "a"},
	}, language.AnalyzerPair{})
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}

	r := &mockRegistry{items: map[string]*metadata.Item{"article": item, "page": localizedItem}}
	e := &mockEngine{}
	return New(r, e, languages, accessor.NewValues(), nil, zap.NewNop()), e, r
}

func TestIndexer_Index(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	entity := entityStub{typeID: "article", id: 5, values: map[string]any{"title": "t"}}
	if err := indexer.Index(context.Background(), entity); err != nil {
		t.Fatalf("Index: %v", err)
	}

	if len(e.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(e.sent))
	}
	request := e.sent[0].(*engine.DocumentRequest)
	if request.Index() != "app-unlocalized" || request.ID() != "article--5" {
		t.Errorf("request = (%q, %q)", request.Index(), request.ID())
	}
}

func TestIndexer_Index_LocalizedRouting(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	entity := localizedStub{entityStub{typeID: "page", id: 2, language: "de"}}
	if err := indexer.Index(context.Background(), entity); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if got := e.sent[0].Index(); got != "app-de" {
		t.Errorf("Index() = %q, want app-de", got)
	}
}

func TestIndexer_Index_UnknownTypeIsNoOp(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	entity := entityStub{typeID: "ghost", id: 1}
	if err := indexer.Index(context.Background(), entity); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(e.sent) != 0 {
		t.Error("request sent for unsearchable type")
	}
}

func TestIndexer_BulkIndex_SkipsUnknown(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	entities := []domain.Searchable{
		entityStub{typeID: "article", id: 1, values: map[string]any{"title": "a"}},
		entityStub{typeID: "ghost", id: 2},
		entityStub{typeID: "article", id: 3, values: map[string]any{"title": "b"}},
	}
	if err := indexer.BulkIndex(context.Background(), entities); err != nil {
		t.Fatalf("BulkIndex: %v", err)
	}

	if len(e.bulk) != 1 {
		t.Fatalf("bulk calls = %d, want 1", len(e.bulk))
	}
	if len(e.bulk[0]) != 2 {
		t.Errorf("bulk requests = %d, want 2", len(e.bulk[0]))
	}
}

func TestIndexer_BulkIndex_EmptyIsNoOp(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	if err := indexer.BulkIndex(context.Background(), nil); err != nil {
		t.Fatalf("BulkIndex: %v", err)
	}
	if len(e.bulk) != 0 {
		t.Error("bulk call issued for empty batch")
	}
}

func TestIndexer_Remove(t *testing.T) {
	indexer, e, _ := newTestIndexer(t, false)

	entity := entityStub{typeID: "article", id: 5}
	if err := indexer.Remove(context.Background(), entity); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	request := e.sent[0].(*engine.DeleteDocumentRequest)
	if request.ID() != "article--5" || !request.IgnoreMissing() {
		t.Errorf("delete request = %+v", request)
	}
}

func TestAutoIndexer_FlushBatches(t *testing.T) {
	indexer, e, r := newTestIndexer(t, true)
	auto := NewAuto(r, indexer, zap.NewNop())

	auto.EntityUpdated(entityStub{typeID: "article", id: 1, values: map[string]any{"title": "a"}})
	auto.EntityUpdated(entityStub{typeID: "article", id: 2, values: map[string]any{"title": "b"}})
	auto.EntityUpdated(entityStub{typeID: "ghost", id: 3})

	if err := auto.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(e.bulk) != 1 || len(e.bulk[0]) != 2 {
		t.Errorf("bulk = %v", e.bulk)
	}

	// Second flush has nothing left.
	if err := auto.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(e.bulk) != 1 {
		t.Error("flush reissued drained batch")
	}
}

func TestAutoIndexer_RespectsOptOut(t *testing.T) {
	indexer, e, r := newTestIndexer(t, false)
	auto := NewAuto(r, indexer, zap.NewNop())

	auto.EntityUpdated(entityStub{typeID: "article", id: 1})
	if err := auto.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(e.bulk) != 0 {
		t.Error("entity of opted-out type was indexed")
	}

	auto.EntityDeleted(context.Background(), entityStub{typeID: "article", id: 1})
	if len(e.sent) != 0 {
		t.Error("delete issued for opted-out type")
	}
}

func TestAutoIndexer_EntityDeleted(t *testing.T) {
	indexer, e, r := newTestIndexer(t, true)
	auto := NewAuto(r, indexer, zap.NewNop())

	auto.EntityDeleted(context.Background(), entityStub{typeID: "article", id: 9})
	if len(e.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(e.sent))
	}
	if _, ok := e.sent[0].(*engine.DeleteDocumentRequest); !ok {
		t.Errorf("request type = %T", e.sent[0])
	}
}
