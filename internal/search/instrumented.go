package search

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/entdex/internal/search/result"
)

// Searcher is the query interface both Client and its decorators
// satisfy.
type Searcher interface {
	Search(
		ctx context.Context,
		query string,
		langCode string,
		typeFilter []string,
		termFilters map[string]string,
	) (*result.Result, error)
}

// InstrumentedSearcher decorates a Searcher with Prometheus counters
// and latency observation. Collectors may be nil.
type InstrumentedSearcher struct {
	inner    Searcher
	searches *prometheus.CounterVec
	duration prometheus.Observer
}

// NewInstrumentedSearcher wraps inner with metrics collection.
func NewInstrumentedSearcher(
	inner Searcher,
	searches *prometheus.CounterVec,
	duration prometheus.Observer,
) *InstrumentedSearcher {
	return &InstrumentedSearcher{
		inner:    inner,
		searches: searches,
		duration: duration,
	}
}

func (s *InstrumentedSearcher) Search(
	ctx context.Context,
	query string,
	langCode string,
	typeFilter []string,
	termFilters map[string]string,
) (*result.Result, error) {
	start := time.Now()
	res, err := s.inner.Search(ctx, query, langCode, typeFilter, termFilters)

	if s.duration != nil {
		s.duration.Observe(time.Since(start).Seconds())
	}
	if s.searches != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.searches.WithLabelValues(status).Inc()
	}
	return res, err
}
