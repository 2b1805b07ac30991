package entdex

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/loader"
)

type post struct {
	id    int64
	title string
}

func (p *post) SearchType() string          { return "post" }
func (p *post) SearchID() int64             { return p.id }
func (p *post) SearchModifiedAt() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

func (p *post) SearchValue(accessor string) any {
	if accessor == "title" {
		return p.title
	}
	return nil
}

// stubEngine records requests and serves canned search responses.
type stubEngine struct {
	requests     []engine.Request
	bulkRequests [][]*engine.DocumentRequest
	searchHits   []engine.Hit
}

func (s *stubEngine) Ping(context.Context) error { return nil }

func (s *stubEngine) Send(_ context.Context, r engine.Request) (*engine.Response, error) {
	return s.record(r), nil
}

func (s *stubEngine) SendStrict(_ context.Context, r engine.Request) (*engine.Response, error) {
	return s.record(r), nil
}

func (s *stubEngine) SendMany(_ context.Context, rs []engine.Request) ([]*engine.Response, error) {
	responses := make([]*engine.Response, len(rs))
	for i, r := range rs {
		responses[i] = s.record(r)
	}
	return responses, nil
}

func (s *stubEngine) BulkIndex(_ context.Context, rs []*engine.DocumentRequest) error {
	s.bulkRequests = append(s.bulkRequests, rs)
	return nil
}

func (s *stubEngine) record(r engine.Request) *engine.Response {
	s.requests = append(s.requests, r)
	if _, ok := r.(*engine.SearchRequest); ok {
		maxScore := 0.0
		for _, h := range s.searchHits {
			if h.Score > maxScore {
				maxScore = h.Score
			}
		}
		return &engine.Response{
			Total:    int64(len(s.searchHits)),
			MaxScore: maxScore,
			Hits:     s.searchHits,
		}
	}
	return nil
}

func mustPostItem(t *testing.T) *metadata.Item {
	t.Helper()
	item, err := metadata.NewItem("post", false, "", true)
	if err != nil {
		t.Fatalf("NewItem() error: %v", err)
	}
	field, err := metadata.NewField("title", metadata.Property, 2, "", 0)
	if err != nil {
		t.Fatalf("NewField() error: %v", err)
	}
	if err := item.AddField(field); err != nil {
		t.Fatalf("AddField() error: %v", err)
	}
	return item
}

func TestNewRequiresItems(t *testing.T) {
	_, err := New(WithEngineClient(&stubEngine{}))
	if err == nil || !strings.Contains(err.Error(), "item definition") {
		t.Fatalf("New() error = %v, want item definition error", err)
	}
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(WithItems(mustPostItem(t)))
	if err == nil || !strings.Contains(err.Error(), "engine address") {
		t.Fatalf("New() error = %v, want engine address error", err)
	}
}

func TestNewRejectsBadIndexPattern(t *testing.T) {
	_, err := New(
		WithEngineClient(&stubEngine{}),
		WithItems(mustPostItem(t)),
		WithIndexPattern("no-placeholder"),
	)
	if err == nil {
		t.Fatal("New() expected error for pattern without {language}")
	}
}

func TestNewInitializesMetadata(t *testing.T) {
	client, err := New(
		WithEngineClient(&stubEngine{}),
		WithItems(mustPostItem(t)),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	items := client.Items()
	if items.Len() != 1 {
		t.Fatalf("Items().Len() = %d, want 1", items.Len())
	}
	if _, ok := items.ByType("post"); !ok {
		t.Error("item post not registered")
	}
}

func TestIndexRoutesDocument(t *testing.T) {
	eng := &stubEngine{}
	client, err := New(
		WithEngineClient(eng),
		WithItems(mustPostItem(t)),
		WithIndexPattern("app-{language}"),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	entity := &post{id: 7, title: "Practical indexing"}
	if err := client.Index(context.Background(), entity); err != nil {
		t.Fatalf("Index() error: %v", err)
	}

	if len(eng.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(eng.requests))
	}
	doc, ok := eng.requests[0].(*engine.DocumentRequest)
	if !ok {
		t.Fatalf("request type = %T, want *engine.DocumentRequest", eng.requests[0])
	}
	if doc.Index() != "app-unlocalized" {
		t.Errorf("index = %q, want app-unlocalized", doc.Index())
	}
	if doc.ID() != "post--7" {
		t.Errorf("id = %q, want post--7", doc.ID())
	}
	if got := doc.Body["property-title"]; got != "Practical indexing" {
		t.Errorf("property-title = %v", got)
	}
}

func TestSearchResolvesEntities(t *testing.T) {
	eng := &stubEngine{searchHits: []engine.Hit{
		{Type: "post", EntityID: 7, Score: 3.5},
	}}
	static := loader.NewStatic()
	static.Put(&post{id: 7, title: "Practical indexing"})

	client, err := New(
		WithEngineClient(eng),
		WithItems(mustPostItem(t)),
		WithFallbackLoader(static),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	res, err := client.Search(context.Background(), "indexing", OfTypes("post"))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if res.Total() != 1 {
		t.Fatalf("Total() = %d, want 1", res.Total())
	}
	group := res.ByType("post")
	if group == nil || group.Len() != 1 {
		t.Fatalf("ByType(post) = %+v, want one hit", group)
	}
	hit := group.Hits()[0]
	if hit.Entity().SearchID() != 7 || hit.Score() != 3.5 {
		t.Errorf("hit = id %d score %v, want 7 and 3.5", hit.Entity().SearchID(), hit.Score())
	}
}

func TestReindexRecreatesAndFills(t *testing.T) {
	eng := &stubEngine{}
	static := loader.NewStatic()
	static.Put(&post{id: 1, title: "First"})
	static.Put(&post{id: 2, title: "Second"})

	client, err := New(
		WithEngineClient(eng),
		WithItems(mustPostItem(t)),
		WithFallbackLoader(static),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	if err := client.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex() error: %v", err)
	}

	var deletes, creates int
	for _, r := range eng.requests {
		switch r.(type) {
		case *engine.DeleteIndexRequest:
			deletes++
		case *engine.CreateIndexRequest:
			creates++
		}
	}
	if deletes != 1 || creates != 1 {
		t.Errorf("deletes = %d creates = %d, want 1 and 1", deletes, creates)
	}
	if len(eng.bulkRequests) != 1 || len(eng.bulkRequests[0]) != 2 {
		t.Errorf("bulk = %+v, want one batch of 2", eng.bulkRequests)
	}
}

func TestAutoIndexerFlushesThroughClient(t *testing.T) {
	eng := &stubEngine{}
	client, err := New(
		WithEngineClient(eng),
		WithItems(mustPostItem(t)),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	var auto *AutoIndexer = client.AutoIndexer()
	auto.EntityUpdated(&post{id: 1, title: "First"})
	auto.EntityUpdated(&post{id: 2, title: "Second"})

	if err := auto.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if len(eng.bulkRequests) != 1 || len(eng.bulkRequests[0]) != 2 {
		t.Errorf("bulk = %+v, want one batch of 2", eng.bulkRequests)
	}
}
