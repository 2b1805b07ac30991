package result

import (
	"reflect"
	"testing"
	"time"
)

type entity struct {
	typeID string
	id     int64
}

func (e entity) SearchType() string              { return e.typeID }
func (e entity) SearchID() int64                 { return e.id }
func (e entity) SearchModifiedAt() time.Time     { return time.Time{} }
func (e entity) SearchValue(accessor string) any { return nil }

func TestHit_Merge(t *testing.T) {
	a := NewHit(entity{"article", 1}, 4.0, map[string][]string{
		"property-title": {"<mark>one</mark>"},
	})
	b := NewHit(entity{"article", 1}, 2.0, map[string][]string{
		"property-title": {"<mark>two</mark>"},
		"property-body":  {"<mark>three</mark>"},
	})

	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	// scoreA + scoreB/2
	if a.Score() != 5.0 {
		t.Errorf("Score() = %v, want 5.0", a.Score())
	}
	if got := a.Highlights("property-title"); !reflect.DeepEqual(got, []string{"<mark>one</mark>", "<mark>two</mark>"}) {
		t.Errorf("title highlights = %v", got)
	}
	if got := a.Highlights("property-body"); !reflect.DeepEqual(got, []string{"<mark>three</mark>"}) {
		t.Errorf("body highlights = %v", got)
	}
}

func TestHit_Merge_IsAsymmetric(t *testing.T) {
	a := NewHit(entity{"article", 1}, 4.0, nil)
	b := NewHit(entity{"article", 1}, 2.0, nil)

	if err := b.Merge(a); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if b.Score() != 4.0 {
		t.Errorf("Score() = %v, want 4.0 (2 + 4/2)", b.Score())
	}
}

func TestHit_Merge_DifferentEntities(t *testing.T) {
	a := NewHit(entity{"article", 1}, 1.0, nil)
	b := NewHit(entity{"article", 2}, 1.0, nil)
	if err := a.Merge(b); err == nil {
		t.Fatal("expected error merging different entities")
	}

	c := NewHit(entity{"page", 1}, 1.0, nil)
	if err := a.Merge(c); err == nil {
		t.Fatal("expected error merging different types")
	}
}

func TestHit_AllHighlights(t *testing.T) {
	h := NewHit(entity{"article", 1}, 1.0, map[string][]string{
		"property-title": {"t1", "t2"},
		"property-body":  {"b1"},
	})

	got := h.AllHighlights()
	want := []string{"b1", "t1", "t2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllHighlights() = %v, want %v", got, want)
	}
}

func TestNewEntityHits_SortsByScore(t *testing.T) {
	hits := []*Hit{
		NewHit(entity{"article", 1}, 1.0, nil),
		NewHit(entity{"article", 2}, 3.0, nil),
		NewHit(entity{"article", 3}, 2.0, nil),
	}

	group := NewEntityHits("article", "de", hits)

	if group.MaxScore() != 3.0 {
		t.Errorf("MaxScore() = %v, want 3.0", group.MaxScore())
	}
	ids := make([]int64, 0, group.Len())
	for _, hit := range group.Hits() {
		ids = append(ids, hit.Entity().SearchID())
	}
	if !reflect.DeepEqual(ids, []int64{2, 3, 1}) {
		t.Errorf("order = %v, want [2 3 1]", ids)
	}
	if group.Language() != "de" {
		t.Errorf("Language() = %q", group.Language())
	}
}

func TestNewResult(t *testing.T) {
	articles := NewEntityHits("article", "", []*Hit{
		NewHit(entity{"article", 1}, 2.0, nil),
		NewHit(entity{"article", 2}, 5.0, nil),
	})
	pages := NewEntityHits("page", "", []*Hit{
		NewHit(entity{"page", 7}, 3.0, nil),
	})
	empty := NewEntityHits("comment", "", nil)

	r := NewResult([]*EntityHits{articles, pages, empty})

	if r.Total() != 3 {
		t.Errorf("Total() = %d, want 3", r.Total())
	}
	if r.MaxScore() != 5.0 {
		t.Errorf("MaxScore() = %v, want 5.0", r.MaxScore())
	}
	if got := r.TypeIDs(); !reflect.DeepEqual(got, []string{"article", "page"}) {
		t.Errorf("TypeIDs() = %v (empty groups must be dropped)", got)
	}
	if r.ByType("comment") != nil {
		t.Error("empty group retained")
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
}

func TestBuilder_MergesDuplicates(t *testing.T) {
	b := NewBuilder()

	if err := b.Add(NewHit(entity{"article", 1}, 4.0, map[string][]string{"f": {"a"}})); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(NewHit(entity{"page", 1}, 1.0, nil)); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(NewHit(entity{"article", 1}, 2.0, map[string][]string{"f": {"b"}})); err != nil {
		t.Fatal(err)
	}

	hits := b.Hits()
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}

	merged := hits[0]
	if merged.Entity().SearchType() != "article" {
		t.Errorf("first hit type = %q, want article (first-seen order)", merged.Entity().SearchType())
	}
	if merged.Score() != 5.0 {
		t.Errorf("merged score = %v, want 5.0", merged.Score())
	}
	if got := merged.Highlights("f"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("merged highlights = %v", got)
	}
}
