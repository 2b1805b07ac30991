// Package es dispatches engine requests to Elasticsearch via the
// official client.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/engine"
)

// BulkChunkSize bounds the number of documents per bulk call.
const BulkChunkSize = 500

// sendConcurrency bounds parallel engine calls in SendMany.
const sendConcurrency = 4

// Config holds connection parameters for the engine.
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client executes engine requests. Connectivity failures degrade to
// nil responses on Send so callers can tolerate partial results;
// SendStrict propagates them instead.
type Client struct {
	es     *elasticsearch.Client
	logger *zap.Logger

	// requestsTotal has labels "op" and "result", requestDuration has
	// label "op". Both may be nil.
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewClient creates a client for the configured engine nodes.
func NewClient(
	cfg Config,
	logger *zap.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{
		es:              es,
		logger:          logger,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// Send executes one request. Engine "not found" maps to a nil
// response when the request opts into ignore-missing; a connectivity
// failure degrades to a nil response unless the context was
// cancelled.
func (c *Client) Send(ctx context.Context, request engine.Request) (*engine.Response, error) {
	response, err := c.SendStrict(ctx, request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if isConnectivityError(err) {
			c.logger.Warn("Engine unreachable, degrading to empty response",
				zap.String("index", request.Index()),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return response, nil
}

// SendStrict executes one request and propagates every failure,
// including connectivity loss. Ignore-missing still applies.
func (c *Client) SendStrict(ctx context.Context, request engine.Request) (*engine.Response, error) {
	op := operationName(request)
	start := time.Now()

	response, err := c.dispatch(ctx, request)

	c.observe(op, time.Since(start), err)
	return response, err
}

// SendMany executes requests with bounded concurrency, preserving
// request order in the result list. Each request is guarded the same
// way as Send, so one failure never aborts siblings.
func (c *Client) SendMany(ctx context.Context, requests []engine.Request) ([]*engine.Response, error) {
	responses := make([]*engine.Response, len(requests))
	errs := make([]error, len(requests))

	jobs := make(chan int)
	done := make(chan struct{})

	workers := sendConcurrency
	if len(requests) < workers {
		workers = len(requests)
	}
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				responses[i], errs[i] = c.Send(ctx, requests[i])
			}
			done <- struct{}{}
		}()
	}

	for i := range requests {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			return responses, err
		}
	}
	return responses, nil
}

// BulkIndex issues chunked bulk calls. Indexing is best-effort: a
// connectivity failure drops the remaining chunks without raising,
// since re-running recovers any gap through idempotent document ids.
func (c *Client) BulkIndex(ctx context.Context, requests []*engine.DocumentRequest) error {
	for _, chunk := range Chunk(requests, BulkChunkSize) {
		body, err := bulkBody(chunk)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := c.es.Bulk(bytes.NewReader(body), c.es.Bulk.WithContext(ctx))
		c.observe("bulk", time.Since(start), err)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			c.logger.Warn("Engine unreachable, dropping remaining bulk chunks",
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err))
			return nil
		}

		if res.IsError() {
			status := res.Status()
			res.Body.Close()
			return fmt.Errorf("bulk index: %s", status)
		}
		res.Body.Close()
	}
	return nil
}

// Chunk splits requests into slices of at most size elements,
// preserving order.
func Chunk(requests []*engine.DocumentRequest, size int) [][]*engine.DocumentRequest {
	if size <= 0 || len(requests) == 0 {
		return nil
	}
	chunks := make([][]*engine.DocumentRequest, 0, (len(requests)+size-1)/size)
	for start := 0; start < len(requests); start += size {
		end := start + size
		if end > len(requests) {
			end = len(requests)
		}
		chunks = append(chunks, requests[start:end])
	}
	return chunks
}

func bulkBody(chunk []*engine.DocumentRequest) ([]byte, error) {
	var buf bytes.Buffer
	for _, request := range chunk {
		header := map[string]any{
			"index": map[string]any{
				"_index": request.Index(),
				"_id":    request.ID(),
			},
		}
		headerLine, err := json.Marshal(header)
		if err != nil {
			return nil, fmt.Errorf("encode bulk header: %w", err)
		}
		bodyLine, err := json.Marshal(request.Body)
		if err != nil {
			return nil, fmt.Errorf("encode bulk document %q: %w", request.ID(), err)
		}
		buf.Write(headerLine)
		buf.WriteByte('\n')
		buf.Write(bodyLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (c *Client) dispatch(ctx context.Context, request engine.Request) (*engine.Response, error) {
	var (
		res *esapi.Response
		err error
	)

	switch request := request.(type) {
	case *engine.CreateIndexRequest:
		body, encodeErr := json.Marshal(request.Body)
		if encodeErr != nil {
			return nil, fmt.Errorf("encode index settings: %w", encodeErr)
		}
		res, err = c.es.Indices.Create(request.Index(),
			c.es.Indices.Create.WithBody(bytes.NewReader(body)),
			c.es.Indices.Create.WithContext(ctx))

	case *engine.DeleteIndexRequest:
		res, err = c.es.Indices.Delete([]string{request.Index()},
			c.es.Indices.Delete.WithContext(ctx))

	case *engine.DocumentRequest:
		body, encodeErr := json.Marshal(request.Body)
		if encodeErr != nil {
			return nil, fmt.Errorf("encode document %q: %w", request.ID(), encodeErr)
		}
		res, err = c.es.Index(request.Index(), bytes.NewReader(body),
			c.es.Index.WithDocumentID(request.ID()),
			c.es.Index.WithContext(ctx))

	case *engine.DeleteDocumentRequest:
		res, err = c.es.Delete(request.Index(), request.ID(),
			c.es.Delete.WithContext(ctx))

	case *engine.SearchRequest:
		body, encodeErr := json.Marshal(request.Body)
		if encodeErr != nil {
			return nil, fmt.Errorf("encode query: %w", encodeErr)
		}
		res, err = c.es.Search(
			c.es.Search.WithIndex(request.Index()),
			c.es.Search.WithBody(bytes.NewReader(body)),
			c.es.Search.WithContext(ctx))

	default:
		return nil, fmt.Errorf("unsupported request type %T", request)
	}

	if err != nil {
		return nil, fmt.Errorf("engine request for %q: %w", request.Index(), err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound && request.IgnoreMissing() {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("engine request for %q: %s", request.Index(), res.Status())
	}

	if _, ok := request.(*engine.SearchRequest); ok {
		return parseSearchResponse(res.Body)
	}
	return nil, nil
}

func operationName(request engine.Request) string {
	switch request.(type) {
	case *engine.CreateIndexRequest:
		return "create_index"
	case *engine.DeleteIndexRequest:
		return "delete_index"
	case *engine.DocumentRequest:
		return "index"
	case *engine.DeleteDocumentRequest:
		return "delete"
	case *engine.SearchRequest:
		return "search"
	default:
		return "unknown"
	}
}

func (c *Client) observe(op string, elapsed time.Duration, err error) {
	if c.requestsTotal != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.requestsTotal.WithLabelValues(op, result).Inc()
	}
	if c.requestDuration != nil {
		c.requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

// isConnectivityError reports whether err looks like a transport
// failure rather than an engine-reported error.
func isConnectivityError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "no active connection")
}
