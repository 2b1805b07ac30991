package metadata

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/entdex/internal/domain"
)

func mustItem(t *testing.T, typeID string, localized bool) *Item {
	t.Helper()
	item, err := NewItem(typeID, localized, "", false)
	if err != nil {
		t.Fatalf("NewItem(%q): %v", typeID, err)
	}
	return item
}

func TestList_ByType(t *testing.T) {
	list := NewList([]*Item{
		mustItem(t, "article", true),
		mustItem(t, "page", false),
	})

	item, err := list.ByType("article")
	if err != nil {
		t.Fatalf("ByType(article): %v", err)
	}
	if item.TypeID() != "article" {
		t.Errorf("TypeID() = %q, want %q", item.TypeID(), "article")
	}

	_, err = list.ByType("missing")
	if !errors.Is(err, domain.ErrUnknownItem) {
		t.Errorf("ByType(missing) error = %v, want ErrUnknownItem", err)
	}
}

func TestList_LocalizedSplit(t *testing.T) {
	list := NewList([]*Item{
		mustItem(t, "article", true),
		mustItem(t, "page", false),
		mustItem(t, "comment", true),
	})

	if got := list.Localized().TypeIDs(); !reflect.DeepEqual(got, []string{"article", "comment"}) {
		t.Errorf("Localized() = %v", got)
	}
	if got := list.Unlocalized().TypeIDs(); !reflect.DeepEqual(got, []string{"page"}) {
		t.Errorf("Unlocalized() = %v", got)
	}
}

func TestList_FilterByType(t *testing.T) {
	list := NewList([]*Item{
		mustItem(t, "article", true),
		mustItem(t, "page", false),
	})

	t.Run("empty filter keeps all", func(t *testing.T) {
		filtered, err := list.FilterByType(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filtered.Len() != 2 {
			t.Errorf("Len() = %d, want 2", filtered.Len())
		}
	})

	t.Run("known type", func(t *testing.T) {
		filtered, err := list.FilterByType([]string{"page"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := filtered.TypeIDs(); !reflect.DeepEqual(got, []string{"page"}) {
			t.Errorf("TypeIDs() = %v, want [page]", got)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := list.FilterByType([]string{"article", "ghost"})
		if !errors.Is(err, domain.ErrUnknownItem) {
			t.Fatalf("error = %v, want ErrUnknownItem", err)
		}
		var unknown *domain.UnknownItemError
		if !errors.As(err, &unknown) || unknown.TypeID != "ghost" {
			t.Errorf("error = %v, want UnknownItemError{ghost}", err)
		}
	})
}

func TestDeriveTypeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"App\\Entity\\BlogPost", "app-entity-blog_post"},
		{"app/models/Page", "app-models-page"},
		{"article", "article"},
		{"models.NewsArticle", "models-news_article"},
	}

	for _, tt := range tests {
		if got := DeriveTypeID(tt.in); got != tt.want {
			t.Errorf("DeriveTypeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	item := mustItem(t, "article", true)
	if err := item.AddField(mustField(t, "title", Property)); err != nil {
		t.Fatal(err)
	}
	if err := item.AddFilter(mustFilter(t, "status")); err != nil {
		t.Fatal(err)
	}

	restored := FromSnapshot(item.Snapshot())
	if restored.TypeID() != "article" || !restored.Localized() {
		t.Errorf("restored item = %q localized=%v", restored.TypeID(), restored.Localized())
	}
	if len(restored.Fields()) != 1 || restored.Fields()[0].EngineName() != "property-title" {
		t.Errorf("restored fields = %v", restored.Fields())
	}
	if len(restored.Filters()) != 1 || restored.Filters()[0].EngineName() != "filter-status" {
		t.Errorf("restored filters = %v", restored.Filters())
	}
}
