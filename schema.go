package entdex

import (
	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/cache"
	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine"
	"github.com/kailas-cloud/entdex/internal/indexer"
	"github.com/kailas-cloud/entdex/internal/loader"
	"github.com/kailas-cloud/entdex/internal/search/result"
)

// Public aliases for the domain types an embedding application works
// with, so consumers never import internal packages.
type (
	// Searchable is the contract an entity fulfills to be indexed.
	Searchable = domain.Searchable
	// LocalizedSearchable marks entities indexed per language.
	LocalizedSearchable = domain.LocalizedSearchable

	// Item declares one searchable entity type.
	Item = metadata.Item
	// Field declares a weighted full-text field of an item.
	Field = metadata.Field
	// Filter declares an exact-match restriction field of an item.
	Filter = metadata.Filter
	// Kind selects how an accessor resolves (property or method).
	Kind = metadata.Kind

	// Result is a grouped search outcome.
	Result = result.Result
	// EntityHits groups the hits of one entity type.
	EntityHits = result.EntityHits
	// Hit is one matched, resolved entity.
	Hit = result.Hit

	// Loader resolves entity ids back to application entities.
	Loader = loader.Loader
	// StaticLoader is an in-memory Loader for tests and small corpora.
	StaticLoader = loader.Static

	// Processor transforms a raw field value before indexing.
	Processor = accessor.Processor

	// AutoIndexer batches lifecycle-driven entity updates until Flush.
	AutoIndexer = indexer.AutoIndexer

	// CacheStore persists metadata snapshots between processes.
	CacheStore = cache.Store
	// BeforeIndexHook mutates a document body before indexing.
	BeforeIndexHook = engine.BeforeIndexHook
)

// Accessor kinds.
const (
	Property = metadata.Property
	Method   = metadata.Method
)

// Domain error sentinels, matchable with errors.Is.
var (
	ErrUnknownItem          = domain.ErrUnknownItem
	ErrMissingLanguage      = domain.ErrMissingLanguage
	ErrInvalidConfiguration = domain.ErrInvalidConfiguration
	ErrInvalidLoader        = domain.ErrInvalidLoader
)

// NewItem declares a searchable entity type. loaderName may be empty
// to use the fallback loader; autoIndexed opts the type into
// lifecycle-driven indexing.
func NewItem(typeID string, localized bool, loaderName string, autoIndexed bool) (*Item, error) {
	return metadata.NewItem(typeID, localized, loaderName, autoIndexed)
}

// NewField declares a weighted full-text field. Zero weight defaults
// to 1, empty format to plain text, zero fragments to the default
// highlight count.
func NewField(name string, kind Kind, weight int, format string, fragments int) (Field, error) {
	return metadata.NewField(name, kind, weight, format, fragments)
}

// NewFilter declares an exact-match filter backed by the given
// accessor.
func NewFilter(accessorName, name string, kind Kind) (Filter, error) {
	return metadata.NewFilter(accessorName, name, kind)
}

// NewStaticLoader creates an empty in-memory loader.
func NewStaticLoader() *StaticLoader {
	return loader.NewStatic()
}

// DeriveTypeID converts a qualified type name into its canonical
// type id, e.g. "App\\Entity\\BlogPost" becomes
// "app-entity-blog_post".
func DeriveTypeID(qualifiedName string) string {
	return metadata.DeriveTypeID(qualifiedName)
}
