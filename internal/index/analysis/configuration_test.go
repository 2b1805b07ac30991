package analysis

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/entdex/internal/domain"
)

func TestNewConfiguration_Defaults(t *testing.T) {
	c := NewConfiguration()

	analyzer, err := c.Analyzer(DefaultAnalyzer)
	if err != nil {
		t.Fatalf("Analyzer(default): %v", err)
	}
	if analyzer["type"] != "custom" {
		t.Errorf("default analyzer type = %v, want custom", analyzer["type"])
	}

	filter, ok := c.Filter(DefaultFilterShingle)
	if !ok {
		t.Fatal("Filter(shingle) not present")
	}
	if filter["type"] != "shingle" {
		t.Errorf("shingle filter type = %v", filter["type"])
	}
}

func TestConfiguration_RegisterDuplicates(t *testing.T) {
	c := NewConfiguration()

	err := c.RegisterFilter(DefaultFilterShingle, Definition{"type": "shingle"})
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("RegisterFilter duplicate error = %v, want ErrInvalidConfiguration", err)
	}

	err = c.RegisterAnalyzer(DefaultAnalyzer, Definition{"type": "custom"})
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("RegisterAnalyzer duplicate error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestConfiguration_RegisterAndLookup(t *testing.T) {
	c := NewConfiguration()

	if err := c.RegisterFilter("app.filter.en", Definition{"type": "stemmer", "name": "english"}); err != nil {
		t.Fatalf("RegisterFilter: %v", err)
	}
	if err := c.RegisterAnalyzer("app.analyzer.en", Definition{"type": "custom", "tokenizer": "standard"}); err != nil {
		t.Fatalf("RegisterAnalyzer: %v", err)
	}

	if _, ok := c.Filter("app.filter.en"); !ok {
		t.Error("Filter(app.filter.en) not found")
	}
	if _, err := c.Analyzer("app.analyzer.en"); err != nil {
		t.Errorf("Analyzer(app.analyzer.en): %v", err)
	}
}

func TestConfiguration_UnknownLookups(t *testing.T) {
	c := NewConfiguration()

	// Unknown analyzers are configuration errors.
	if _, err := c.Analyzer("ghost"); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("Analyzer(ghost) error = %v, want ErrInvalidConfiguration", err)
	}

	// Unknown filters are engine built-ins, not errors.
	if _, ok := c.Filter("lowercase"); ok {
		t.Error("Filter(lowercase) reported as registered")
	}
}
