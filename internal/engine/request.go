// Package engine models requests against the search engine as plain
// payloads, built from metadata and entities by pure constructors.
package engine

import (
	"fmt"

	"github.com/kailas-cloud/entdex/internal/domain"
)

// Reserved document fields present in every index.
const (
	EntityIDField        = "entity-id"
	EntityTimestampField = "entity-timestamp"
)

// TimestampFormat is the Go layout for EntityTimestampField values.
// MappingTimestampFormat is the same format in engine mapping syntax.
const (
	TimestampFormat        = "2006-01-02 15:04:05"
	MappingTimestampFormat = "yyyy-MM-dd HH:mm:ss"
)

// Highlighted snippet markers.
const (
	HighlightPreTag  = "<mark>"
	HighlightPostTag = "</mark>"
)

// Request is an abstract engine request.
type Request interface {
	// Index is the target index name.
	Index() string
	// IgnoreMissing reports whether an engine "not found" response
	// counts as success.
	IgnoreMissing() bool
}

// CreateIndexRequest creates an index with settings and mappings.
type CreateIndexRequest struct {
	index string
	Body  map[string]any
}

func (r *CreateIndexRequest) Index() string       { return r.index }
func (r *CreateIndexRequest) IgnoreMissing() bool { return false }

// DeleteIndexRequest deletes an index. Missing indexes are tolerated
// so teardown is idempotent.
type DeleteIndexRequest struct {
	index string
}

// NewDeleteIndex builds an index deletion request.
func NewDeleteIndex(index string) *DeleteIndexRequest {
	return &DeleteIndexRequest{index: index}
}

func (r *DeleteIndexRequest) Index() string       { return r.index }
func (r *DeleteIndexRequest) IgnoreMissing() bool { return true }

// DocumentRequest indexes one document.
type DocumentRequest struct {
	index   string
	docType string
	id      string
	Body    map[string]any
}

func (r *DocumentRequest) Index() string       { return r.index }
func (r *DocumentRequest) IgnoreMissing() bool { return false }

// DocType is the item type id the document belongs to.
func (r *DocumentRequest) DocType() string { return r.docType }

// ID is the engine document id, globally unique across types sharing
// an index.
func (r *DocumentRequest) ID() string { return r.id }

// DeleteDocumentRequest removes one document. Missing documents are
// tolerated.
type DeleteDocumentRequest struct {
	index string
	id    string
}

// NewDeleteDocument builds a document deletion request.
func NewDeleteDocument(index, docType string, entityID int64) *DeleteDocumentRequest {
	return &DeleteDocumentRequest{index: index, id: DocumentID(docType, entityID)}
}

func (r *DeleteDocumentRequest) Index() string       { return r.index }
func (r *DeleteDocumentRequest) IgnoreMissing() bool { return true }
func (r *DeleteDocumentRequest) ID() string          { return r.id }

// SearchRequest queries one index for one item type.
type SearchRequest struct {
	index   string
	docType string
	Body    map[string]any
}

func (r *SearchRequest) Index() string       { return r.index }
func (r *SearchRequest) IgnoreMissing() bool { return false }
func (r *SearchRequest) DocType() string     { return r.docType }

// DocumentID builds the engine document id for an entity.
func DocumentID(docType string, entityID int64) string {
	return fmt.Sprintf("%s--%d", docType, entityID)
}

// BeforeIndexHook may rewrite a document body before it is sent.
type BeforeIndexHook func(body map[string]any, entity domain.Searchable) map[string]any
