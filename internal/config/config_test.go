package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleYAML = `
http:
  port: 8080
engine:
  addresses:
    - http://localhost:9200
cache:
  driver: memory
search:
  index_pattern: "app-{language}"
  languages:
    de:
      index_analyzer: default.analyzer.de
items:
  - type: article
    localized: true
    auto_index: true
    fields:
      - name: title
        weight: 3
      - name: teaser
        kind: method
        format: html
    filters:
      - name: status
  - type: page
    fields:
      - name: content
        format: html
`

func parse(t *testing.T, raw string) Config {
	t.Helper()
	var cfg Config
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	cfg := parse(t, sampleYAML)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("HTTP defaults not applied: %+v", cfg.HTTP)
	}
	if cfg.Items[0].Fields[0].Kind != "property" {
		t.Errorf("field kind default = %q", cfg.Items[0].Fields[0].Kind)
	}
	if cfg.Items[0].Filters[0].Accessor != "status" {
		t.Errorf("filter accessor default = %q", cfg.Items[0].Filters[0].Accessor)
	}
}

func TestConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"missing engine", func(c *Config) { c.Engine.Addresses = nil }, "engine.addresses"},
		{"bad pattern", func(c *Config) { c.Search.IndexPattern = "static-name" }, "index_pattern"},
		{"bad driver", func(c *Config) { c.Cache.Driver = "etcd" }, "cache.driver"},
		{"redis without addrs", func(c *Config) { c.Cache.Driver = "redis" }, "cache.addrs"},
		{"duplicate item", func(c *Config) { c.Items = append(c.Items, c.Items[0]) }, "declared twice"},
		{"item without fields", func(c *Config) { c.Items[0].Fields = nil }, "at least one field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t, sampleYAML)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestConfig_BuildItems(t *testing.T) {
	cfg := parse(t, sampleYAML)

	items, err := cfg.BuildItems()
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	article := items[0]
	if article.TypeID() != "article" || !article.Localized() || !article.AutoIndexed() {
		t.Errorf("article = %q localized=%v auto=%v", article.TypeID(), article.Localized(), article.AutoIndexed())
	}
	if got := article.Fields()[1].EngineName(); got != "method-teaser" {
		t.Errorf("teaser engine name = %q", got)
	}
	if got := article.Filters()[0].EngineName(); got != "filter-status" {
		t.Errorf("status engine name = %q", got)
	}
}

func TestConfig_BuildLanguages(t *testing.T) {
	cfg := parse(t, sampleYAML)

	languages, err := cfg.BuildLanguages()
	if err != nil {
		t.Fatalf("BuildLanguages: %v", err)
	}
	if got := languages.IndexName("de"); got != "app-de" {
		t.Errorf("IndexName(de) = %q", got)
	}

	// search_analyzer falls back to index_analyzer.
	searchAnalyzer, err := languages.SearchAnalyzer("de")
	if err != nil {
		t.Fatalf("SearchAnalyzer: %v", err)
	}
	if searchAnalyzer != "default.analyzer.de" {
		t.Errorf("SearchAnalyzer(de) = %q", searchAnalyzer)
	}
}

func TestConfig_BuildAnalysis(t *testing.T) {
	cfg := parse(t, sampleYAML)
	cfg.Search.Filters = map[string]map[string]any{
		"app.filter.en": {"type": "stemmer", "name": "english"},
	}
	cfg.Search.Analyzers = map[string]map[string]any{
		"app.analyzer.en": {"type": "custom", "tokenizer": "standard"},
	}

	analysis, err := cfg.BuildAnalysis()
	if err != nil {
		t.Fatalf("BuildAnalysis: %v", err)
	}
	if _, ok := analysis.Filter("app.filter.en"); !ok {
		t.Error("declared filter not registered")
	}
	if _, err := analysis.Analyzer("app.analyzer.en"); err != nil {
		t.Errorf("declared analyzer not registered: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ENTDEX_TEST_HOST", "engine.internal")

	got := string(expandEnvVars([]byte("addr: ${ENTDEX_TEST_HOST}:9200\npass: ${ENTDEX_TEST_MISSING:-fallback}")))
	want := "addr: engine.internal:9200\npass: fallback"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}
