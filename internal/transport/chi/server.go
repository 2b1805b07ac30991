// Package chi exposes the search and admin API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/search/result"
)

// termFilterPrefix marks query parameters that become exact-match
// filter clauses, e.g. ?filter.status=published.
const termFilterPrefix = "filter."

// errorCode is the machine-readable error identifier in API responses.
type errorCode string

const (
	codeBadRequest           errorCode = "bad_request"
	codeMissingLanguage      errorCode = "missing_language"
	codeUnknownType          errorCode = "unknown_type"
	codeInvalidConfiguration errorCode = "invalid_configuration"
	codeInternalError        errorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search and admin endpoints.
type Server struct {
	search        searcher
	reindex       reindexer
	registry      registry
	engine        pinger
	cache         pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. engine and cache are probed by
// the health endpoint; cache may be nil for in-memory deployments.
func NewServer(
	search searcher,
	reindex reindexer,
	reg registry,
	engine pinger,
	cache pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		reindex:  reindex,
		registry: reg,
		engine:   engine,
		cache:    cache,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingLanguage, http.StatusBadRequest, codeMissingLanguage),
		sentinelHandler(domain.ErrUnknownItem, http.StatusNotFound, codeUnknownType),
		sentinelHandler(domain.ErrInvalidConfiguration, http.StatusInternalServerError, codeInvalidConfiguration),
		sentinelHandler(domain.ErrInvalidLoader, http.StatusInternalServerError, codeInvalidConfiguration),
	}
	return s
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/search", s.Search)
	r.Post("/v1/admin/reindex", s.Reindex)
	r.Get("/v1/admin/metadata", s.Metadata)
	r.Post("/v1/admin/metadata/clear", s.ClearMetadata)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchResponse is the JSON body of GET /v1/search.
type SearchResponse struct {
	Query    string        `json:"query"`
	Total    int           `json:"total"`
	MaxScore float64       `json:"max_score"`
	Results  []TypeResults `json:"results"`
}

// TypeResults groups the hits of one entity type.
type TypeResults struct {
	Type     string        `json:"type"`
	Language string        `json:"language,omitempty"`
	MaxScore float64       `json:"max_score"`
	Hits     []HitResponse `json:"hits"`
}

// HitResponse is one matched entity.
type HitResponse struct {
	Type       string   `json:"type"`
	ID         int64    `json:"id"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// Search handles GET /v1/search.
//
// Query parameters: q (required), lang, types (comma-separated) and
// filter.<name>=<value> pairs for exact-match restriction.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	lang := r.URL.Query().Get("lang")

	var typeFilter []string
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				typeFilter = append(typeFilter, t)
			}
		}
	}

	termFilters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if !strings.HasPrefix(key, termFilterPrefix) || len(values) == 0 {
			continue
		}
		if name := key[len(termFilterPrefix):]; name != "" {
			termFilters[name] = values[0]
		}
	}

	res, err := s.search.Search(r.Context(), query, lang, typeFilter, termFilters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToResponse(query, res))
}

// ReindexResponse is the JSON body of POST /v1/admin/reindex.
type ReindexResponse struct {
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

// Reindex handles POST /v1/admin/reindex. The rebuild runs
// synchronously; large corpora should raise the server write timeout.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.reindex.Run(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{
		Status:     "ok",
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// MetadataResponse is the JSON body of GET /v1/admin/metadata.
type MetadataResponse struct {
	Initialized bool                    `json:"initialized"`
	Items       []metadata.ItemSnapshot `json:"items"`
}

// Metadata handles GET /v1/admin/metadata.
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	items := s.registry.AllItems().All()
	snapshots := make([]metadata.ItemSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, item.Snapshot())
	}
	writeJSON(w, http.StatusOK, MetadataResponse{
		Initialized: s.registry.IsInitialized(),
		Items:       snapshots,
	})
}

// ClearMetadata handles POST /v1/admin/metadata/clear.
func (s *Server) ClearMetadata(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Clear(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health. Reports engine and cache
// connectivity; any failing check turns the status unhealthy.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	probe := func(name string, p pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(r.Context()); err != nil {
			checks[name] = "unhealthy"
			healthy = false
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			return
		}
		checks[name] = "healthy"
	}
	probe("engine", s.engine)
	probe("cache", s.cache)

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: status, Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func resultToResponse(query string, res *result.Result) SearchResponse {
	resp := SearchResponse{
		Query:    query,
		Total:    res.Total(),
		MaxScore: res.MaxScore(),
		Results:  make([]TypeResults, 0, len(res.TypeIDs())),
	}
	for _, typeID := range res.TypeIDs() {
		group := res.ByType(typeID)
		tr := TypeResults{
			Type:     group.TypeID(),
			Language: group.Language(),
			MaxScore: group.MaxScore(),
			Hits:     make([]HitResponse, 0, group.Len()),
		}
		for _, hit := range group.Hits() {
			tr.Hits = append(tr.Hits, HitResponse{
				Type:       hit.Entity().SearchType(),
				ID:         hit.Entity().SearchID(),
				Score:      hit.Score(),
				Highlights: hit.AllHighlights(),
			})
		}
		resp.Results = append(resp.Results, tr)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns err.Error() only for known domain errors,
// a generic message otherwise. Prevents leaking internals to clients.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownItem,
		domain.ErrMissingLanguage,
		domain.ErrInvalidConfiguration,
		domain.ErrInvalidLoader,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler creates an errorHandler for a sentinel error type.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps domain errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
